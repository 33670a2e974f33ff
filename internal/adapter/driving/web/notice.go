package web

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// noticeMarkdown renders the operator notice. Raw HTML in the source is
// omitted by goldmark, and the output is sanitized again by noticePolicy.
var noticeMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
)

var noticePolicy = newNoticePolicy()

// newNoticePolicy allows inline formatting, lists and links. Headings, images
// and tables are flattened to their text.
func newNoticePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "del", "code", "ul", "ol", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderNotice converts a markdown notice to sanitized HTML. A blank notice
// renders as "" and the banner is omitted.
func RenderNotice(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := noticeMarkdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render notice: %w", err)
	}
	return strings.TrimSpace(noticePolicy.Sanitize(buf.String())), nil
}
