package htmldoc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// textContent extracts the visible text of a node and its descendants,
// with line breaks for br elements and spaces separating block elements.
// The result is not whitespace-normalized; pass it through NormalizeSpace.
func textContent(n *html.Node) string {
	var sb strings.Builder
	writeTextContent(n, &sb)
	return sb.String()
}

func writeTextContent(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		if unwantedTags[n.Data] {
			return
		}
		if n.Data == "br" {
			sb.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeTextContent(c, sb)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "td", "th":
			sb.WriteString(" ")
		}
	}
}

// directTextContent extracts text from a node excluding nested block
// elements, for list items that contain sublists
func directTextContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			switch c.Data {
			case "ul", "ol", "div", "p", "table", "blockquote", "pre":
				// Block children become their own elements
			default:
				sb.WriteString(textContent(c))
			}
		}
	}
	return sb.String()
}

// rawTextContent extracts text preserving all whitespace, for code blocks
func rawTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// NormalizeSpace collapses whitespace runs to single spaces and trims the
// ends. The input string is returned unchanged when it is already
// normalized, so the common clean case allocates nothing.
func NormalizeSpace(s string) string {
	if isNormalized(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func isNormalized(s string) bool {
	if s == "" {
		return true
	}

	prevSpace := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			if r != ' ' || prevSpace || i == 0 {
				return false
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
	}
	return !prevSpace
}
