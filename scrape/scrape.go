// Package scrape orchestrates the conversion pipeline: fetch a page, parse
// it into the document model, render the requested output format, and
// optionally chunk the result for RAG ingestion. Batches fan out across a
// bounded worker pool with one chunker per document.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/marklab/marklab/fetch"
	"github.com/marklab/marklab/format"
	"github.com/marklab/marklab/htmldoc"
	"github.com/marklab/marklab/model"
	"github.com/marklab/marklab/rag"
)

// Options configures a scraping run
type Options struct {
	// Format selects the rendered output format
	Format format.OutputFormat

	// ChunkSize and ChunkOverlap configure chunking; chunking runs only
	// when SaveChunks is set
	ChunkSize    int
	ChunkOverlap int

	// SaveChunks chunks each document's markdown rendition for RAG
	SaveChunks bool

	// ChunkFormat selects the chunk export encoding
	ChunkFormat rag.ExportFormat
}

// DefaultOptions returns the standard scraping configuration
func DefaultOptions() Options {
	return Options{
		Format:       format.OutputFormatMarkdown,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		ChunkFormat:  rag.ExportFormatJSONL,
	}
}

// Result holds the outcome of scraping one URL. Err is set when the URL
// failed; the other fields are then zero.
type Result struct {
	URL      string
	Document *model.Document
	Output   string
	Chunks   []rag.Chunk
	Err      error
}

// Scraper runs the fetch-parse-render pipeline
type Scraper struct {
	client *fetch.Client
	opts   Options
}

// New creates a scraper that fetches through client
func New(client *fetch.Client, opts Options) (*Scraper, error) {
	if opts.SaveChunks {
		// Validate the chunker configuration up front rather than on the
		// first document
		if _, err := rag.NewStreamingChunker(opts.ChunkSize, opts.ChunkOverlap); err != nil {
			return nil, err
		}
	}
	return &Scraper{client: client, opts: opts}, nil
}

// ScrapeURL fetches and converts a single page
func (s *Scraper) ScrapeURL(ctx context.Context, pageURL string) (*Result, error) {
	body, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.Convert(pageURL, body)
}

// Convert runs the conversion pipeline on already-fetched HTML
func (s *Scraper) Convert(pageURL, body string) (*Result, error) {
	doc, err := htmldoc.ParseString(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	output, err := format.Render(doc, s.opts.Format)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", pageURL, err)
	}

	result := &Result{URL: pageURL, Document: doc, Output: output}

	if s.opts.SaveChunks {
		chunks, err := rag.ChunkDocument(doc, s.opts.ChunkSize, s.opts.ChunkOverlap)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", pageURL, err)
		}
		result.Chunks = chunks
	}

	return result, nil
}

// ScrapeAll fetches and converts urls concurrently with at most parallelism
// workers. Results keep input order. Per-URL failures land in Result.Err and
// do not abort the batch; only context cancellation stops early.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, parallelism int) ([]*Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]*Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.ScrapeURL(ctx, pageURL)
			if err != nil {
				results[i] = &Result{URL: pageURL, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// SaveResult writes the rendered output (and chunks, when produced) under
// outputDir, deriving file names from the URL path
func (s *Scraper) SaveResult(result *Result, outputDir string) error {
	if result.Err != nil {
		return fmt.Errorf("cannot save failed result for %s: %w", result.URL, result.Err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := slugForURL(result.URL)

	outPath := filepath.Join(outputDir, base+s.opts.Format.FileExtension())
	if err := os.WriteFile(outPath, []byte(result.Output), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if s.opts.SaveChunks && len(result.Chunks) > 0 {
		config := rag.DefaultExportConfig()
		config.Format = s.opts.ChunkFormat
		config.SourceURL = result.URL

		chunkPath := filepath.Join(outputDir, base+".chunks"+s.opts.ChunkFormat.FileExtension())
		if err := rag.NewExporter(config).ExportToFile(chunkPath, result.Chunks); err != nil {
			return fmt.Errorf("writing chunk file: %w", err)
		}
	}

	return nil
}

// slugForURL derives a file-safe name from a URL's host and path
func slugForURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return sanitize(pageURL)
	}

	name := parsed.Host + parsed.Path
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		name = "index"
	}
	return sanitize(name)
}

func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
