package format

import (
	"fmt"
	"strings"

	"github.com/marklab/marklab/model"
)

// RenderMarkdown converts the document to markdown. The document title
// becomes a level-one heading; elements follow in document order, separated
// by blank lines.
func RenderMarkdown(doc *model.Document) string {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(doc.Title)
		sb.WriteString("\n\n")
	}

	for _, el := range doc.Elements {
		block := renderElement(el)
		if block == "" {
			continue
		}
		sb.WriteString(block)
		sb.WriteString("\n\n")
	}

	return strings.TrimSpace(collapseBlankLines(sb.String()))
}

func renderElement(el model.Element) string {
	switch e := el.(type) {
	case *model.Heading:
		return strings.Repeat("#", e.Level) + " " + e.Text

	case *model.Paragraph:
		return e.Text

	case *model.List:
		var sb strings.Builder
		for i, item := range e.Items {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.Repeat("  ", item.Level))
			if e.Ordered {
				sb.WriteString(fmt.Sprintf("%d. ", i+1))
			} else {
				sb.WriteString("- ")
			}
			sb.WriteString(item.Text)
		}
		return sb.String()

	case *model.CodeBlock:
		return "```" + e.Language + "\n" + e.Code + "\n```"

	case *model.Blockquote:
		lines := strings.Split(e.Text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")

	case *model.Image:
		return fmt.Sprintf("![%s](%s)", e.Alt, e.Src)

	case *model.Table:
		return strings.TrimRight(e.ToMarkdown(), "\n")

	default:
		return ""
	}
}

// collapseBlankLines reduces runs of three or more newlines to a single
// blank line
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
