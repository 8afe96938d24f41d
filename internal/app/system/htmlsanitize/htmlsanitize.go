// Package htmlsanitize strips unsafe markup from admin-authored HTML before
// it reaches a public page.
package htmlsanitize

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

// newPolicy starts from bluemonday's UGC policy and adds the table styling
// rich-text editors and Markdown tables emit.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	tableEls := []string{"table", "thead", "tbody", "tfoot", "tr", "th", "td"}
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).OnElements(tableEls...)
	p.AllowStyles("text-align").
		MatchingEnum("left", "center", "right", "justify").
		OnElements(tableEls...)
	p.AllowStyles("width").
		Matching(regexp.MustCompile(`^\d+(\.\d+)?(%|px|em|rem)?$`)).
		OnElements(tableEls...)

	return p
}

// Sanitize returns s with disallowed elements and attributes removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s looks like text with no markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, turning newlines into
// <br>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay accepts either plain text or HTML and returns safe HTML.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
