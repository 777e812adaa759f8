// Package htmldoc parses HTML into the document model. Parsing prunes
// boilerplate (scripts, navigation, ads), narrows to the page's main content
// container when one exists, and walks the remaining DOM in order, so the
// resulting element sequence matches the page's reading order.
package htmldoc

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/marklab/marklab/model"
)

// Config controls how HTML is reduced to document content
type Config struct {
	// BaseURL resolves relative link and image targets; empty leaves
	// them as written
	BaseURL string

	// SelectMainContent narrows extraction to the first matching content
	// container (main, article, #content, .content) before falling back
	// to body
	SelectMainContent bool

	// PruneUnwanted removes scripts, styles, navigation, and ad
	// boilerplate before extraction
	PruneUnwanted bool

	// CollectLinks gathers hyperlinks from the extracted region into
	// Document.Links
	CollectLinks bool
}

// DefaultConfig returns the standard extraction configuration
func DefaultConfig() Config {
	return Config{
		SelectMainContent: true,
		PruneUnwanted:     true,
		CollectLinks:      true,
	}
}

// Reader provides access to parsed HTML document content
type Reader struct {
	doc    *html.Node
	base   *url.URL
	config Config
	title  string
	meta   map[string]string
}

// Open opens an HTML file for reading
func Open(filename string, config Config) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f, config)
}

// OpenReader parses HTML from an io.Reader
func OpenReader(r io.Reader, config Config) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{
		doc:    doc,
		config: config,
		meta:   make(map[string]string),
	}

	if config.BaseURL != "" {
		base, err := url.Parse(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		reader.base = base
	}

	reader.extractHead(doc)

	return reader, nil
}

// ParseString parses an HTML string with the default configuration and the
// given base URL, returning the document model directly.
func ParseString(htmlSrc, baseURL string) (*model.Document, error) {
	config := DefaultConfig()
	config.BaseURL = baseURL

	reader, err := OpenReader(strings.NewReader(htmlSrc), config)
	if err != nil {
		return nil, err
	}
	return reader.Document()
}

// Title returns the document title from the head element
func (r *Reader) Title() string {
	return r.title
}

// Meta returns name/content pairs from the head's meta tags
func (r *Reader) Meta() map[string]string {
	return r.meta
}

// extractHead extracts title and meta tags from the head element
func (r *Reader) extractHead(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "head" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "title":
				r.title = NormalizeSpace(textContent(c))
			case "meta":
				name, content := "", ""
				for _, attr := range c.Attr {
					switch attr.Key {
					case "name", "property":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if name != "" && content != "" {
					r.meta[name] = content
				}
			}
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.extractHead(c)
	}
}

// Document extracts the content region into the document model
func (r *Reader) Document() (*model.Document, error) {
	if r.config.PruneUnwanted {
		pruneUnwanted(r.doc)
	}

	content := r.doc
	if r.config.SelectMainContent {
		content = mainContent(r.doc)
	}

	doc := model.NewDocument(r.title, r.config.BaseURL)
	doc.Meta = r.meta

	ctx := &parseContext{}
	r.traverseNode(content, doc, ctx)
	ctx.flushList(doc)

	if r.config.CollectLinks {
		r.collectLinks(content, doc)
	}

	return doc, nil
}

// parseContext tracks list-building state during traversal
type parseContext struct {
	inList      bool
	listOrdered bool
	listLevel   int
	listItems   []model.ListItem
}

func (ctx *parseContext) flushList(doc *model.Document) {
	if ctx.inList && len(ctx.listItems) > 0 {
		doc.AddElement(&model.List{Items: ctx.listItems, Ordered: ctx.listOrdered})
	}
	ctx.inList = false
	ctx.listItems = nil
}

// traverseNode recursively processes DOM nodes in document order
func (r *Reader) traverseNode(n *html.Node, doc *model.Document, ctx *parseContext) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			ctx.flushList(doc)
			level := int(n.Data[1] - '0')
			if text := NormalizeSpace(textContent(n)); text != "" {
				doc.AddElement(&model.Heading{Level: level, Text: text})
			}
			return

		case "p":
			ctx.flushList(doc)
			if text := NormalizeSpace(textContent(n)); text != "" {
				doc.AddElement(&model.Paragraph{Text: text})
			}
			return

		case "div":
			if isBlockContainer(n) {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					r.traverseNode(c, doc, ctx)
				}
				return
			}
			if text := NormalizeSpace(textContent(n)); text != "" {
				ctx.flushList(doc)
				doc.AddElement(&model.Paragraph{Text: text})
			}
			return

		case "ul", "ol":
			prevInList := ctx.inList
			prevOrdered := ctx.listOrdered

			if !prevInList {
				ctx.inList = true
				ctx.listOrdered = n.Data == "ol"
				ctx.listItems = nil
				ctx.listLevel = 0
			}

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				r.traverseNode(c, doc, ctx)
			}

			if !prevInList {
				ctx.flushList(doc)
			}
			ctx.listOrdered = prevOrdered
			return

		case "li":
			if !ctx.inList {
				return
			}
			if text := NormalizeSpace(directTextContent(n)); text != "" {
				ctx.listItems = append(ctx.listItems, model.ListItem{
					Text:  text,
					Level: ctx.listLevel,
				})
			}
			// Nested lists add a level of indentation
			ctx.listLevel++
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
					r.traverseNode(c, doc, ctx)
				}
			}
			ctx.listLevel--
			return

		case "pre":
			ctx.flushList(doc)
			if code := rawTextContent(n); strings.TrimSpace(code) != "" {
				doc.AddElement(&model.CodeBlock{
					Language: codeLanguage(n),
					Code:     strings.Trim(code, "\n"),
				})
			}
			return

		case "blockquote":
			ctx.flushList(doc)
			if text := NormalizeSpace(textContent(n)); text != "" {
				doc.AddElement(&model.Blockquote{Text: text})
			}
			return

		case "table":
			ctx.flushList(doc)
			if table := parseTable(n); table != nil {
				doc.AddElement(table)
			}
			return

		case "img":
			src, alt := "", ""
			for _, attr := range n.Attr {
				switch attr.Key {
				case "src":
					src = attr.Val
				case "alt":
					alt = attr.Val
				}
			}
			if src != "" {
				doc.AddElement(&model.Image{Alt: alt, Src: r.resolveURL(src)})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.traverseNode(c, doc, ctx)
	}
}

// collectLinks gathers hyperlinks with non-empty targets, skipping fragment
// and javascript links
func (r *Reader) collectLinks(n *html.Node, doc *model.Document) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			href := strings.TrimSpace(attr.Val)
			if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
				break
			}
			doc.Links = append(doc.Links, model.Link{
				Text: NormalizeSpace(textContent(n)),
				Href: r.resolveURL(href),
			})
			break
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectLinks(c, doc)
	}
}

// resolveURL resolves ref against the configured base URL, returning ref
// unchanged when no base is set or ref does not parse
func (r *Reader) resolveURL(ref string) string {
	if r.base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return r.base.ResolveReference(parsed).String()
}

// codeLanguage extracts the language from a "language-*" class on the pre
// element or a nested code element
func codeLanguage(n *html.Node) string {
	if lang := languageClass(n); lang != "" {
		return lang
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			if lang := languageClass(c); lang != "" {
				return lang
			}
		}
	}
	return ""
}

func languageClass(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

// parseTable extracts a table element, returning nil when it has no cells
func parseTable(tableNode *html.Node) *model.Table {
	table := &model.Table{}

	var walkRows func(n *html.Node, inHeader bool)
	walkRows = func(n *html.Node, inHeader bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead":
				walkRows(c, true)
			case "tbody", "tfoot":
				walkRows(c, false)
			case "tr":
				cells, allHeader := parseRow(c)
				if len(cells) == 0 {
					continue
				}
				if (inHeader || allHeader) && table.Headers == nil && len(table.Rows) == 0 {
					table.Headers = cells
				} else {
					table.Rows = append(table.Rows, cells)
				}
			}
		}
	}
	walkRows(tableNode, false)

	if table.Headers == nil && len(table.Rows) == 0 {
		return nil
	}
	return table
}

// parseRow returns the row's cell texts and whether every cell is a th
func parseRow(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		cells = append(cells, NormalizeSpace(textContent(c)))
		if c.Data != "th" {
			allHeader = false
		}
	}

	if len(cells) == 0 {
		allHeader = false
	}
	return cells, allHeader
}

// isBlockContainer reports whether the element has block-level children
func isBlockContainer(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "p", "ul", "ol", "table", "h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "pre", "article", "section", "main", "figure", "img":
			return true
		}
	}
	return false
}
