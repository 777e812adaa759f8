// Package model provides the intermediate representation (IR) for extracted
// web document content.
//
// This package defines the user-facing data structures that represent the
// semantic structure of an HTML document after extraction. All parsing
// operations ultimately produce these types, and all output renderers and the
// chunking engine consume them, making them the primary API for working with
// converted content.
//
// # Document Structure
//
// The [Document] type represents a complete document with its title, source
// URL, metadata, and an ordered list of content elements:
//
//	doc := model.NewDocument("Example", "https://example.com/page")
//	doc.AddElement(&model.Heading{Level: 1, Text: "Introduction"})
//
// # Elements
//
// All content implements the [Element] interface. The concrete types are:
//
//   - [Paragraph] - text paragraphs
//   - [Heading] - headings (levels 1-6)
//   - [List] - ordered or unordered lists
//   - [CodeBlock] - fenced code with an optional language
//   - [Blockquote] - quoted text
//   - [Image] - images with alt text and a resolved source URL
//   - [Table] - tables with a header row and body rows
//
// Element order matches reading order in the source HTML, so renderers can
// emit structurally faithful output without re-sorting.
package model
