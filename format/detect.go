package format

import (
	"path/filepath"
	"strings"
)

// InputFormat represents the kind of source content being converted
type InputFormat int

const (
	// InputUnknown indicates unrecognized content
	InputUnknown InputFormat = iota
	// InputHTML indicates an HTML document
	InputHTML
	// InputMarkdown indicates markdown or plain text
	InputMarkdown
	// InputXML indicates a generic XML document
	InputXML
)

// String returns the string representation of the input format
func (f InputFormat) String() string {
	switch f {
	case InputHTML:
		return "HTML"
	case InputMarkdown:
		return "Markdown"
	case InputXML:
		return "XML"
	default:
		return "Unknown"
	}
}

// DetectInput determines input format from a filename extension, falling
// back to Unknown for extensions it does not recognize
func DetectInput(filename string) InputFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return InputHTML
	case ".md", ".markdown", ".txt":
		return InputMarkdown
	case ".xml":
		return InputXML
	default:
		return InputUnknown
	}
}

// SniffInput determines input format from content. HTML is recognized by a
// doctype or a known opening tag near the start; XML by a declaration or a
// root element; everything else that contains text is treated as markdown.
func SniffInput(content string) InputFormat {
	head := strings.TrimSpace(content)
	if head == "" {
		return InputUnknown
	}
	if len(head) > 512 {
		head = head[:512]
	}
	lower := strings.ToLower(head)

	if strings.HasPrefix(lower, "<!doctype html") {
		return InputHTML
	}
	for _, tag := range []string{"<html", "<head", "<body", "<main", "<article", "<div", "<p>", "<p "} {
		if strings.Contains(lower, tag) {
			return InputHTML
		}
	}

	if strings.HasPrefix(lower, "<?xml") || strings.HasPrefix(lower, "<") {
		return InputXML
	}

	return InputMarkdown
}

// DetectInputContent combines filename and content detection: the extension
// wins when recognized, content sniffing decides otherwise
func DetectInputContent(filename, content string) InputFormat {
	if f := DetectInput(filename); f != InputUnknown {
		return f
	}
	return SniffInput(content)
}
