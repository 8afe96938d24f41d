package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []string
		avoid []string
	}{
		{
			name: "heading and emphasis",
			src:  "## Why recycle\n\nIt is **good**.",
			want: []string{"<h2", "Why recycle</h2>", "<strong>good</strong>"},
		},
		{
			name: "gfm table",
			src:  "| Item | Price |\n|---|---|\n| CRT | 5 |",
			want: []string{"<table>", "<td>CRT</td>"},
		},
		{
			name:  "strikethrough",
			src:   "~~landfill~~",
			want:  []string{"landfill"},
			avoid: []string{"~~"},
		},
		{
			name:  "raw html dropped",
			src:   "Hello <script>alert(1)</script>",
			want:  []string{"Hello"},
			avoid: []string{"<script"},
		},
		{
			name:  "javascript link neutralized",
			src:   "[click](javascript:alert(1))",
			avoid: []string{"javascript:"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.src)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, w := range tc.want {
				if !strings.Contains(string(got), w) {
					t.Errorf("output %q missing %q", got, w)
				}
			}
			for _, a := range tc.avoid {
				if strings.Contains(string(got), a) {
					t.Errorf("output %q contains %q", got, a)
				}
			}
		})
	}
}

func TestRender_Empty(t *testing.T) {
	got, err := Render("")
	if err != nil || got != "" {
		t.Errorf("Render(\"\") = %q, %v", got, err)
	}
}
