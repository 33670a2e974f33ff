package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/prboard/internal/adapter/driving/web/viewmodel"
)

// Settings renders the GitHub token form.
func Settings(m vm.SettingsViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<h1>Settings</h1>`)
		if m.Flash != "" {
			hw.raw(`<p class="flash">`)
			hw.text(m.Flash)
			hw.raw(`</p>`)
		}
		if m.Error != "" {
			hw.raw(`<p class="error">`)
			hw.text(m.Error)
			hw.raw(`</p>`)
		}

		hw.raw(`<section class="credential"><h2>GitHub token</h2><p>`)
		switch m.Credential.Source {
		case "stored":
			hw.raw(`Using stored token `)
		case "env":
			hw.raw(`Using token from PRBOARD_GITHUB_TOKEN `)
		default:
			hw.raw(`No token configured.`)
		}
		if m.Credential.TokenMasked != "" {
			hw.raw(`<code>`)
			hw.text(m.Credential.TokenMasked)
			hw.raw(`</code>`)
		}
		if m.UpdatedAt != "" {
			hw.raw(` (updated `)
			hw.text(m.UpdatedAt)
			hw.raw(`)`)
		}
		hw.raw(`</p>`)

		if !m.StorageEnabled {
			hw.raw(`<p class="hint">Token storage is disabled. Set PRBOARD_SECRET_KEY to 64 hex characters to store a token here.</p></section>`)
			return hw.err
		}

		hw.raw(`<form method="post" action="/settings/token">`)
		hw.csrfField(m.CSRFToken)
		hw.raw(`<input type="password" name="token" autocomplete="off" placeholder="ghp_..." required>`)
		hw.raw(`<button type="submit">Save token</button></form>`)

		if m.Credential.Source == "stored" {
			hw.raw(`<form method="post" action="/settings/token/clear">`)
			hw.csrfField(m.CSRFToken)
			hw.raw(`<button type="submit" class="secondary">Clear stored token</button></form>`)
		}
		hw.raw(`</section>`)
		return hw.err
	})
}
