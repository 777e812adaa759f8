// Package format renders a parsed document into one of the supported output
// formats: Markdown, JSON, or XML. Rendering walks the document's elements in
// order, so output reading order always matches source reading order.
package format

import (
	"fmt"
	"strings"

	"github.com/marklab/marklab/model"
)

// OutputFormat identifies a supported output format
type OutputFormat int

const (
	// OutputFormatMarkdown renders GitHub-flavored markdown
	OutputFormatMarkdown OutputFormat = iota
	// OutputFormatJSON renders a structured JSON document
	OutputFormatJSON
	// OutputFormatXML renders a structured XML document
	OutputFormatXML
)

// String returns a human-readable representation of the output format
func (of OutputFormat) String() string {
	switch of {
	case OutputFormatMarkdown:
		return "markdown"
	case OutputFormatJSON:
		return "json"
	case OutputFormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (of OutputFormat) FileExtension() string {
	switch of {
	case OutputFormatMarkdown:
		return ".md"
	case OutputFormatJSON:
		return ".json"
	case OutputFormatXML:
		return ".xml"
	default:
		return ".txt"
	}
}

// ParseFormat resolves a format name as given on a command line or in a
// configuration file. Recognized names are "markdown" (alias "md"), "json",
// and "xml", case-insensitively.
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return OutputFormatMarkdown, nil
	case "json":
		return OutputFormatJSON, nil
	case "xml":
		return OutputFormatXML, nil
	default:
		return OutputFormatMarkdown, fmt.Errorf("unknown output format %q", name)
	}
}

// Render converts the document to the requested format
func Render(doc *model.Document, format OutputFormat) (string, error) {
	switch format {
	case OutputFormatMarkdown:
		return RenderMarkdown(doc), nil
	case OutputFormatJSON:
		return RenderJSON(doc)
	case OutputFormatXML:
		return RenderXML(doc)
	default:
		return "", fmt.Errorf("unsupported output format: %v", format)
	}
}
