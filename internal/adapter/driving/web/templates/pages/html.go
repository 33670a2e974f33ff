// Package pages holds the page-level templ components of the web GUI.
package pages

import (
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s HTML-escaped.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) number(n int) {
	hw.raw(strconv.Itoa(n))
}

// csrfField emits the hidden CSRF input expected by form handlers.
func (hw *htmlWriter) csrfField(token string) {
	hw.raw(`<input type="hidden" name="csrf_token" value="`)
	hw.text(token)
	hw.raw(`">`)
}
