package doc

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Extract walks the spine in package order, strips each (X)HTML content
// item to plain text, and joins the non-empty results with a single
// newline. Block elements become blank lines so paragraph structure
// survives tokenization.
func (f *EPUBFormat) Extract(filename string) (string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var parts []string

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil || !isHTMLMediaType(ref.Item.MediaType) {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			return "", fmt.Errorf("item %s: %w", ref.Item.HREF, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return "", fmt.Errorf("item %s: %w", ref.Item.HREF, err)
		}
		text, err := htmlToText(string(data))
		if err != nil {
			return "", fmt.Errorf("item %s: %w", ref.Item.HREF, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}

func isHTMLMediaType(mt string) bool {
	switch mt {
	case "application/xhtml+xml", "text/html", "application/html+xml":
		return true
	}
	return false
}

// blockTags are elements whose close implies a paragraph boundary.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"blockquote": true, "section": true, "article": true, "figcaption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// htmlToText strips markup, emitting blank lines at block boundaries.
func htmlToText(s string) (string, error) {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		case html.ElementNode:
			if n.Data == "head" || n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			out.WriteString("\n\n")
		}
	}
	walk(root)
	return out.String(), nil
}
