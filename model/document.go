package model

// Document represents a complete web document with extracted structure
type Document struct {
	// Title is the document title, from <title> or the first <h1>
	Title string

	// BaseURL is the URL the document was retrieved from; relative links
	// and image sources are resolved against it during extraction
	BaseURL string

	// Meta holds name/content pairs from <meta> tags in the head
	Meta map[string]string

	// Elements is the ordered content of the document body
	Elements []Element

	// Links are the unique hyperlinks found in the body, in resolved
	// absolute form
	Links []Link
}

// NewDocument creates a new empty document
func NewDocument(title, baseURL string) *Document {
	return &Document{
		Title:    title,
		BaseURL:  baseURL,
		Meta:     make(map[string]string),
		Elements: make([]Element, 0),
	}
}

// AddElement appends a content element to the document
func (d *Document) AddElement(e Element) {
	d.Elements = append(d.Elements, e)
}

// ElementCount returns the number of content elements
func (d *Document) ElementCount() int {
	return len(d.Elements)
}

// Headings returns all headings in document order
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, e := range d.Elements {
		if h, ok := e.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Paragraphs returns all paragraphs in document order
func (d *Document) Paragraphs() []*Paragraph {
	var paragraphs []*Paragraph
	for _, e := range d.Elements {
		if p, ok := e.(*Paragraph); ok {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Lists returns all lists in document order
func (d *Document) Lists() []*List {
	var lists []*List
	for _, e := range d.Elements {
		if l, ok := e.(*List); ok {
			lists = append(lists, l)
		}
	}
	return lists
}

// CodeBlocks returns all code blocks in document order
func (d *Document) CodeBlocks() []*CodeBlock {
	var blocks []*CodeBlock
	for _, e := range d.Elements {
		if c, ok := e.(*CodeBlock); ok {
			blocks = append(blocks, c)
		}
	}
	return blocks
}

// Tables returns all tables in document order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, e := range d.Elements {
		if t, ok := e.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// ExtractText returns all text content concatenated, separated by blank
// lines, in document order
func (d *Document) ExtractText() string {
	var text string
	for _, e := range d.Elements {
		if te, ok := e.(TextElement); ok {
			if t := te.GetText(); t != "" {
				if text != "" {
					text += "\n\n"
				}
				text += t
			}
		}
	}
	return text
}

// HasHeadings returns true if the document contains at least one heading
func (d *Document) HasHeadings() bool {
	for _, e := range d.Elements {
		if _, ok := e.(*Heading); ok {
			return true
		}
	}
	return false
}

// TOCEntry represents an entry in the document outline
type TOCEntry struct {
	Level int    // Heading level (1-6)
	Text  string // Heading text
}

// TableOfContents returns headings organized as a document outline
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for _, h := range d.Headings() {
		toc = append(toc, TOCEntry{Level: h.Level, Text: h.Text})
	}
	return toc
}
