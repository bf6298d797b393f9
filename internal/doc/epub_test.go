package doc

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	htmlContent := `
	<html>
		<head><title>Test</title><style>p { color: red }</style></head>
		<body>
			<h1>Chapter 1</h1>
			<p>This is the <b>first</b> paragraph.</p>
			<p>
				This is the second paragraph
				with a newline.
			</p>
			<div>Some <span>nested</span> text.</div>
			<script>var ignored = true;</script>
		</body>
	</html>
	`

	text, err := htmlToText(htmlContent)
	if err != nil {
		t.Fatalf("htmlToText: %v", err)
	}

	if strings.Contains(text, "ignored") || strings.Contains(text, "color") || strings.Contains(text, "Test") {
		t.Errorf("head/script/style content leaked into %q", text)
	}

	// Block boundaries must survive as blank lines so tokenization keeps
	// the paragraph structure.
	s := TokenizeText(text)
	want := []string{
		"Chapter", "1", "¶",
		"This", "is", "the", "first", "paragraph", "¶",
		"This", "is", "the", "second", "paragraph", "with", "a", "newline", "¶",
		"Some", "nested", "text",
	}
	got := words(s)
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsHTMLMediaType(t *testing.T) {
	tests := []struct {
		mt   string
		want bool
	}{
		{"application/xhtml+xml", true},
		{"text/html", true},
		{"text/css", false},
		{"image/jpeg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isHTMLMediaType(tt.mt); got != tt.want {
			t.Errorf("isHTMLMediaType(%q) = %v, want %v", tt.mt, got, tt.want)
		}
	}
}

func TestEPUBFormatRegistration(t *testing.T) {
	f := &EPUBFormat{}
	if f.Name() != "EPUB" {
		t.Errorf("Name() = %q, want EPUB", f.Name())
	}
	if exts := f.Extensions(); len(exts) != 1 || exts[0] != ".epub" {
		t.Errorf("Extensions() = %v, want [.epub]", exts)
	}
}
