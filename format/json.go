package format

import (
	"encoding/json"
	"fmt"

	"github.com/marklab/marklab/model"
)

// jsonDocument is the serialized document shape. Elements carry a "type"
// discriminator and only the fields relevant to that type.
type jsonDocument struct {
	Title    string            `json:"title"`
	BaseURL  string            `json:"base_url"`
	Meta     map[string]string `json:"meta,omitempty"`
	Elements []jsonElement     `json:"elements"`
	Links    []jsonLink        `json:"links,omitempty"`
}

type jsonElement struct {
	Type     string     `json:"type"`
	Text     string     `json:"text,omitempty"`
	Level    int        `json:"level,omitempty"`
	Ordered  bool       `json:"ordered,omitempty"`
	Items    []string   `json:"items,omitempty"`
	Language string     `json:"language,omitempty"`
	Code     string     `json:"code,omitempty"`
	Alt      string     `json:"alt,omitempty"`
	Src      string     `json:"src,omitempty"`
	Headers  []string   `json:"headers,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
}

type jsonLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// RenderJSON converts the document to indented JSON
func RenderJSON(doc *model.Document) (string, error) {
	out := jsonDocument{
		Title:    doc.Title,
		BaseURL:  doc.BaseURL,
		Meta:     doc.Meta,
		Elements: make([]jsonElement, 0, len(doc.Elements)),
	}

	for _, el := range doc.Elements {
		out.Elements = append(out.Elements, toJSONElement(el))
	}
	for _, link := range doc.Links {
		out.Links = append(out.Links, jsonLink{Text: link.Text, URL: link.Href})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing document to JSON: %w", err)
	}
	return string(data), nil
}

func toJSONElement(el model.Element) jsonElement {
	switch e := el.(type) {
	case *model.Heading:
		return jsonElement{Type: "heading", Text: e.Text, Level: e.Level}
	case *model.Paragraph:
		return jsonElement{Type: "paragraph", Text: e.Text}
	case *model.List:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = item.Text
		}
		return jsonElement{Type: "list", Ordered: e.Ordered, Items: items}
	case *model.CodeBlock:
		return jsonElement{Type: "code_block", Language: e.Language, Code: e.Code}
	case *model.Blockquote:
		return jsonElement{Type: "blockquote", Text: e.Text}
	case *model.Image:
		return jsonElement{Type: "image", Alt: e.Alt, Src: e.Src}
	case *model.Table:
		return jsonElement{Type: "table", Headers: e.Headers, Rows: e.Rows}
	default:
		return jsonElement{Type: "unknown"}
	}
}
