package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nonVisible are subtrees whose text never renders
const nonVisible = "script, style, noscript, template"

// Flatten converts HTML into trimmed text lines.
// Every text node is separated by a newline, so label and value usually land on
// different lines with blank lines between them.
func Flatten(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc.Find(nonVisible).Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return SplitLines(strings.Join(parts, "\n")), nil
}

// FlattenString is Flatten over an in-memory document
func FlattenString(htmlContent string) ([]string, error) {
	return Flatten(strings.NewReader(htmlContent))
}

// SplitLines splits text on newlines and trims each line, keeping empty lines
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
