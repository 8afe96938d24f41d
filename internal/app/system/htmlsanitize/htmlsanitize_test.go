package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/greencircuit/internal/app/system/htmlsanitize"
)

func TestSanitize_Preserved(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "Drop-off hours: 9 to 5"},
		{"emphasis", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"lists", "<ul><li>Laptops</li><li>Phones</li></ul><ol><li>First</li></ol>"},
		{"headings", "<h1>Heading 1</h1><h2>Heading 2</h2>"},
		{"blockquote", "<blockquote>A quote</blockquote>"},
		{"code", "<pre><code>make recycle</code></pre>"},
		{"table", "<table><thead><tr><th>Item</th></tr></thead><tbody><tr><td>CRT</td></tr></tbody></table>"},
		{"formatting", "<u>u</u> <s>s</s> <sub>sub</sub> <sup>sup</sup> <mark>mark</mark>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tc.input); got != tc.input {
				t.Errorf("Sanitize(%q) = %q", tc.input, got)
			}
		})
	}
}

func TestSanitize_Removes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		mustNot string
		keep    string
	}{
		{"script", "<p>Hello</p><script>alert('xss')</script>", "script", "Hello"},
		{"onclick", `<button onclick="alert(1)">Click</button>`, "onclick", ""},
		{"javascript href", `<a href="javascript:alert(1)">Click</a>`, "javascript:", "Click"},
		{"iframe", `<p>Content</p><iframe src="https://evil.example"></iframe>`, "iframe", "Content"},
		{"style tag", `<style>body{color:red}</style><p>Text</p>`, "<style>", "Text"},
		{"onerror", `<img src="x" onerror="alert(1)">`, "onerror", ""},
		{"data url", `<img src="data:text/html,<script>alert(1)</script>">`, "data:text/html", ""},
		{"form", `<form action="/x"><input type="text"></form>`, "<input", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tc.input)
			if strings.Contains(got, tc.mustNot) {
				t.Errorf("Sanitize(%q) = %q, still contains %q", tc.input, got, tc.mustNot)
			}
			if tc.keep != "" && !strings.Contains(got, tc.keep) {
				t.Errorf("Sanitize(%q) = %q, lost %q", tc.input, got, tc.keep)
			}
		})
	}
}

func TestSanitize_TableAttributes(t *testing.T) {
	input := `<table class="rates" style="width:100%"><tr><td colspan="2" style="text-align:center">Cell</td></tr></table>`
	got := htmlsanitize.Sanitize(input)
	for _, want := range []string{`class="rates"`, `colspan="2"`, "style="} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize dropped %s: %q", want, got)
		}
	}
}

func TestSanitize_LinksAndImages(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://example.com">Link</a><img src="https://example.com/a.png" alt="A">`)
	for _, want := range []string{"https://example.com", `alt="A"`, "nofollow"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestSanitizeToHTML(t *testing.T) {
	got := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>alert('xss')</script>")
	if got != template.HTML("<p>Hello</p>") {
		t.Errorf("got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":                true,
		"Hello":           true,
		"5 < 10":          true,
		"5 > 3":           true,
		"<p>Hello</p>":    false,
		"a <b>bold</b> b": false,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello", "<p>Hello</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"A & B", "<p>A &amp; B</p>"},
		{"<script>", "<p>&lt;script&gt;</p>"},
	}
	for _, tc := range tests {
		if got := htmlsanitize.PlainTextToHTML(tc.in); got != tc.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrepareForDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want template.HTML
	}{
		{"", ""},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"<p>Hello</p><script>x</script>", "<p>Hello</p>"},
	}
	for _, tc := range tests {
		if got := htmlsanitize.PrepareForDisplay(tc.in); got != tc.want {
			t.Errorf("PrepareForDisplay(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
