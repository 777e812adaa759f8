package model

import "strings"

// ElementType represents the type of a content element
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeParagraph
	ElementTypeHeading
	ElementTypeList
	ElementTypeCodeBlock
	ElementTypeBlockquote
	ElementTypeImage
	ElementTypeTable
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeHeading:
		return "Heading"
	case ElementTypeList:
		return "List"
	case ElementTypeCodeBlock:
		return "CodeBlock"
	case ElementTypeBlockquote:
		return "Blockquote"
	case ElementTypeImage:
		return "Image"
	case ElementTypeTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Element is the interface for all document content elements
type Element interface {
	Type() ElementType
}

// TextElement is an interface for elements containing text
type TextElement interface {
	Element
	GetText() string
}

// Paragraph represents a paragraph of text
type Paragraph struct {
	Text string
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }
func (p *Paragraph) GetText() string   { return p.Text }

// Heading represents a heading
type Heading struct {
	Text  string
	Level int // 1-6
}

func (h *Heading) Type() ElementType { return ElementTypeHeading }
func (h *Heading) GetText() string   { return h.Text }

// List represents a list (ordered or unordered)
type List struct {
	Items   []ListItem
	Ordered bool
}

func (l *List) Type() ElementType { return ElementTypeList }
func (l *List) GetText() string {
	var sb strings.Builder
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(item.Text)
	}
	return sb.String()
}

// ListItem represents a single list item
type ListItem struct {
	Text  string
	Level int // Nesting depth, 0 for top-level items
}

// CodeBlock represents preformatted code
type CodeBlock struct {
	Code     string
	Language string // Empty if the source declared no language
}

func (c *CodeBlock) Type() ElementType { return ElementTypeCodeBlock }
func (c *CodeBlock) GetText() string   { return c.Code }

// Blockquote represents quoted text
type Blockquote struct {
	Text string
}

func (b *Blockquote) Type() ElementType { return ElementTypeBlockquote }
func (b *Blockquote) GetText() string   { return b.Text }

// Image represents an image reference
type Image struct {
	Alt string
	// Src is the image URL, resolved against the document base URL
	Src string
}

func (i *Image) Type() ElementType { return ElementTypeImage }

// Link represents a hyperlink collected from the document body.
// Links are tracked at the document level rather than as ordered elements,
// since their anchor text already appears inside the surrounding content.
type Link struct {
	Text string
	// Href is the link target, resolved against the document base URL
	Href string
}
