// Package markdown renders blog post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dalemusser/greencircuit/internal/app/system/htmlsanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// engine is safe for concurrent use.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render converts Markdown to HTML and runs the result through the
// sanitizer. Raw HTML in the source is dropped by goldmark.
func Render(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return htmlsanitize.SanitizeToHTML(buf.String()), nil
}

// MustRender is Render for templates; on error it falls back to escaped text.
func MustRender(src string) template.HTML {
	out, err := Render(src)
	if err != nil {
		return template.HTML(htmlsanitize.PlainTextToHTML(src))
	}
	return out
}
