package format

import (
	"encoding/xml"
	"fmt"

	"github.com/marklab/marklab/model"
)

type xmlDocument struct {
	XMLName  xml.Name     `xml:"document"`
	Title    string       `xml:"title"`
	BaseURL  string       `xml:"baseUrl"`
	Elements []xmlElement `xml:"elements>element"`
	Links    []xmlLink    `xml:"links>link,omitempty"`
}

type xmlElement struct {
	Type     string   `xml:"type,attr"`
	Level    int      `xml:"level,attr,omitempty"`
	Ordered  *bool    `xml:"ordered,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Alt      string   `xml:"alt,attr,omitempty"`
	Src      string   `xml:"src,attr,omitempty"`
	Text     string   `xml:"text,omitempty"`
	Code     string   `xml:"code,omitempty"`
	Items    []string `xml:"items>item,omitempty"`
	Headers  []string `xml:"headers>header,omitempty"`
	Rows     []xmlRow `xml:"rows>row,omitempty"`
}

type xmlRow struct {
	Cells []string `xml:"cell"`
}

type xmlLink struct {
	Text string `xml:"text"`
	URL  string `xml:"url"`
}

// RenderXML converts the document to indented XML with a standard
// declaration header
func RenderXML(doc *model.Document) (string, error) {
	out := xmlDocument{
		Title:    doc.Title,
		BaseURL:  doc.BaseURL,
		Elements: make([]xmlElement, 0, len(doc.Elements)),
	}

	for _, el := range doc.Elements {
		out.Elements = append(out.Elements, toXMLElement(el))
	}
	for _, link := range doc.Links {
		out.Links = append(out.Links, xmlLink{Text: link.Text, URL: link.Href})
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing document to XML: %w", err)
	}
	return xml.Header + string(data), nil
}

func toXMLElement(el model.Element) xmlElement {
	switch e := el.(type) {
	case *model.Heading:
		return xmlElement{Type: "heading", Level: e.Level, Text: e.Text}
	case *model.Paragraph:
		return xmlElement{Type: "paragraph", Text: e.Text}
	case *model.List:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = item.Text
		}
		ordered := e.Ordered
		return xmlElement{Type: "list", Ordered: &ordered, Items: items}
	case *model.CodeBlock:
		return xmlElement{Type: "code_block", Language: e.Language, Code: e.Code}
	case *model.Blockquote:
		return xmlElement{Type: "blockquote", Text: e.Text}
	case *model.Image:
		return xmlElement{Type: "image", Alt: e.Alt, Src: e.Src}
	case *model.Table:
		rows := make([]xmlRow, len(e.Rows))
		for i, row := range e.Rows {
			rows[i] = xmlRow{Cells: row}
		}
		return xmlElement{Type: "table", Headers: e.Headers, Rows: rows}
	default:
		return xmlElement{Type: "unknown"}
	}
}
