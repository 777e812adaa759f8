// Package marklab provides a fluent API for converting web pages and HTML
// documents to Markdown, JSON, or XML, with optional semantic chunking for
// RAG pipelines.
//
// Basic usage:
//
//	md, err := marklab.FromURL("https://example.com/article").Markdown(ctx)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	chunks, err := marklab.FromURL("https://example.com/article").
//	    ChunkOptions(1000, 200).
//	    Chunks(ctx)
//
// For advanced use cases, the lower-level fetch, htmldoc, format, and rag
// packages are also available.
package marklab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marklab/marklab/fetch"
	"github.com/marklab/marklab/format"
	"github.com/marklab/marklab/htmldoc"
	"github.com/marklab/marklab/model"
	"github.com/marklab/marklab/rag"
)

type sourceKind int

const (
	sourceURL sourceKind = iota
	sourceHTML
	sourceFile
)

// Converter configures and runs a conversion. Create one with FromURL,
// FromHTML, or FromFile, chain option calls, then invoke a terminal
// operation (Document, Markdown, JSON, XML, Render, or Chunks).
type Converter struct {
	kind    sourceKind
	source  string
	options convertOptions
}

// FromURL converts the page at url. The page is fetched when a terminal
// operation runs.
//
// Example:
//
//	md, err := marklab.FromURL("https://example.com").Markdown(ctx)
func FromURL(url string) *Converter {
	c := &Converter{kind: sourceURL, source: url, options: defaultConvertOptions()}
	c.options.baseURL = url
	return c
}

// FromHTML converts an HTML string directly
func FromHTML(html string) *Converter {
	return &Converter{kind: sourceHTML, source: html, options: defaultConvertOptions()}
}

// FromFile converts a local HTML file
func FromFile(path string) *Converter {
	return &Converter{kind: sourceFile, source: path, options: defaultConvertOptions()}
}

// Document parses the source and returns the document model. Markdown
// sources cannot be parsed into the model; use Markdown or Chunks for
// those.
func (c *Converter) Document(ctx context.Context) (*model.Document, error) {
	html, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if c.kind == sourceFile && format.DetectInputContent(c.source, html) == format.InputMarkdown {
		return nil, fmt.Errorf("marklab: %s is markdown, not HTML; use Markdown or Chunks", c.source)
	}

	config := htmldoc.DefaultConfig()
	config.BaseURL = c.options.baseURL
	config.SelectMainContent = c.options.selectMain
	config.PruneUnwanted = c.options.prune
	config.CollectLinks = c.options.collectLinks

	reader, err := htmldoc.OpenReader(strings.NewReader(html), config)
	if err != nil {
		return nil, err
	}
	return reader.Document()
}

// Markdown converts the source to markdown. A file source that already
// contains markdown is returned as-is.
func (c *Converter) Markdown(ctx context.Context) (string, error) {
	if c.kind == sourceFile {
		content, err := c.load(ctx)
		if err != nil {
			return "", err
		}
		if format.DetectInputContent(c.source, content) == format.InputMarkdown {
			return content, nil
		}
	}
	return c.Render(ctx, format.OutputFormatMarkdown)
}

// JSON converts the source to structured JSON
func (c *Converter) JSON(ctx context.Context) (string, error) {
	return c.Render(ctx, format.OutputFormatJSON)
}

// XML converts the source to structured XML
func (c *Converter) XML(ctx context.Context) (string, error) {
	return c.Render(ctx, format.OutputFormatXML)
}

// Render converts the source to the given output format
func (c *Converter) Render(ctx context.Context, f format.OutputFormat) (string, error) {
	doc, err := c.Document(ctx)
	if err != nil {
		return "", err
	}
	return format.Render(doc, f)
}

// Chunks converts the source to markdown and chunks it with the configured
// size and overlap. A file source that already contains markdown is chunked
// directly without an HTML parse.
func (c *Converter) Chunks(ctx context.Context) ([]rag.Chunk, error) {
	if c.kind == sourceFile {
		content, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		if format.DetectInputContent(c.source, content) == format.InputMarkdown {
			return rag.ChunkText(content, c.options.chunkSize, c.options.chunkOverlap)
		}
	}
	doc, err := c.Document(ctx)
	if err != nil {
		return nil, err
	}
	return rag.ChunkDocument(doc, c.options.chunkSize, c.options.chunkOverlap)
}

// load resolves the source to an HTML string
func (c *Converter) load(ctx context.Context) (string, error) {
	switch c.kind {
	case sourceURL:
		if c.source == "" {
			return "", errors.New("marklab: empty URL")
		}
		client := c.options.client
		if client == nil {
			client = fetch.NewClient(c.options.fetchConfig)
		}
		return client.Get(ctx, c.source)

	case sourceHTML:
		return c.source, nil

	case sourceFile:
		data, err := os.ReadFile(c.source)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", c.source, err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("marklab: unknown source kind %d", c.kind)
	}
}

// Must is a helper that wraps a call to a function returning (T, error) and
// panics if the error is non-nil. It is intended for scripts and tests
// where error handling would be cumbersome.
//
// Example:
//
//	md := marklab.Must(marklab.FromHTML(html).Markdown(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
