// Package templates holds the shared page chrome for the web GUI.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the HTML document shell with navigation and assets.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/static/style.css">` +
			`</head><body>` +
			`<nav class="topnav"><a class="brand" href="/">PR Status Dashboard</a>` +
			`<a href="/settings">Settings</a></nav><main>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main><script src="/static/app.js" defer></script></body></html>`)
		return err
	})
}
