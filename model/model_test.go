package model

import (
	"strings"
	"testing"
)

func TestElementType_String(t *testing.T) {
	tests := []struct {
		et   ElementType
		want string
	}{
		{ElementTypeParagraph, "Paragraph"},
		{ElementTypeHeading, "Heading"},
		{ElementTypeList, "List"},
		{ElementTypeCodeBlock, "CodeBlock"},
		{ElementTypeBlockquote, "Blockquote"},
		{ElementTypeImage, "Image"},
		{ElementTypeTable, "Table"},
		{ElementType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.et.String(); got != tt.want {
				t.Errorf("ElementType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("Example", "https://example.com/page")

	if doc.Title != "Example" {
		t.Errorf("Expected title 'Example', got %q", doc.Title)
	}
	if doc.BaseURL != "https://example.com/page" {
		t.Errorf("Unexpected base URL %q", doc.BaseURL)
	}
	if doc.ElementCount() != 0 {
		t.Errorf("New document should have no elements, got %d", doc.ElementCount())
	}
	if doc.Meta == nil {
		t.Error("Meta map should be initialized")
	}
}

func TestDocument_AddElement(t *testing.T) {
	doc := NewDocument("Test", "https://example.com")

	doc.AddElement(&Heading{Level: 1, Text: "Intro"})
	doc.AddElement(&Paragraph{Text: "First paragraph."})
	doc.AddElement(&Heading{Level: 2, Text: "Details"})
	doc.AddElement(&List{Items: []ListItem{{Text: "one"}, {Text: "two"}}})

	if doc.ElementCount() != 4 {
		t.Fatalf("Expected 4 elements, got %d", doc.ElementCount())
	}

	if got := len(doc.Headings()); got != 2 {
		t.Errorf("Expected 2 headings, got %d", got)
	}
	if got := len(doc.Paragraphs()); got != 1 {
		t.Errorf("Expected 1 paragraph, got %d", got)
	}
	if got := len(doc.Lists()); got != 1 {
		t.Errorf("Expected 1 list, got %d", got)
	}
	if !doc.HasHeadings() {
		t.Error("HasHeadings should be true")
	}
}

func TestDocument_ExtractText(t *testing.T) {
	doc := NewDocument("Test", "https://example.com")
	doc.AddElement(&Heading{Level: 1, Text: "Title"})
	doc.AddElement(&Paragraph{Text: "Body text."})
	doc.AddElement(&Image{Alt: "logo", Src: "https://example.com/logo.png"})

	text := doc.ExtractText()
	if text != "Title\n\nBody text." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestDocument_TableOfContents(t *testing.T) {
	doc := NewDocument("Test", "https://example.com")
	doc.AddElement(&Heading{Level: 1, Text: "One"})
	doc.AddElement(&Paragraph{Text: "..."})
	doc.AddElement(&Heading{Level: 2, Text: "Two"})

	toc := doc.TableOfContents()
	if len(toc) != 2 {
		t.Fatalf("Expected 2 TOC entries, got %d", len(toc))
	}
	if toc[0].Level != 1 || toc[0].Text != "One" {
		t.Errorf("Unexpected first entry: %+v", toc[0])
	}
	if toc[1].Level != 2 || toc[1].Text != "Two" {
		t.Errorf("Unexpected second entry: %+v", toc[1])
	}
}

func TestList_GetText(t *testing.T) {
	list := &List{Items: []ListItem{{Text: "alpha"}, {Text: "beta"}}}
	if got := list.GetText(); got != "alpha\nbeta" {
		t.Errorf("List.GetText() = %q", got)
	}
}

func TestTable_ToMarkdown(t *testing.T) {
	table := &Table{
		Headers: []string{"Name", "Value"},
		Rows: [][]string{
			{"a", "1"},
			{"b|c", "2"},
		},
	}

	md := table.ToMarkdown()

	if !strings.HasPrefix(md, "| Name | Value |\n| --- | --- |\n") {
		t.Errorf("Unexpected markdown header:\n%s", md)
	}
	if !strings.Contains(md, "| a | 1 |") {
		t.Errorf("Missing first row:\n%s", md)
	}
	if !strings.Contains(md, `b\|c`) {
		t.Errorf("Pipe in cell should be escaped:\n%s", md)
	}
}

func TestTable_ToMarkdown_NoHeaders(t *testing.T) {
	table := &Table{Rows: [][]string{{"x", "y"}}}
	md := table.ToMarkdown()

	if !strings.Contains(md, "| x | y |") {
		t.Errorf("Missing body row:\n%s", md)
	}
	if !strings.Contains(md, "| --- | --- |") {
		t.Errorf("Missing separator row:\n%s", md)
	}
}

func TestTable_ColCount(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  int
	}{
		{"empty", Table{}, 0},
		{"headers only", Table{Headers: []string{"a", "b", "c"}}, 3},
		{"rows only", Table{Rows: [][]string{{"a", "b"}}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.ColCount(); got != tt.want {
				t.Errorf("ColCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
