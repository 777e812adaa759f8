package rag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// ExportFormat defines the available chunk export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one JSON object per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as a JSON array
	ExportFormatJSON
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ExportConfig holds configuration options for chunk export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// PrettyPrint enables indented output for the JSON array format.
	// It has no effect on JSONL, which is line-oriented by definition.
	PrettyPrint bool

	// SourceURL is recorded on each exported record when set
	SourceURL string
}

// DefaultExportConfig returns sensible defaults for export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:      ExportFormatJSONL,
		PrettyPrint: false,
	}
}

// ExportRecord is the serialized form of one chunk. Each record carries a
// generated UUID so downstream vector stores can upsert by stable ID.
type ExportRecord struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	SourceURL string        `json:"source_url,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// Exporter writes chunks in a configured format
type Exporter struct {
	config ExportConfig
}

// NewExporter creates an exporter with the given configuration
func NewExporter(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// Export writes the chunks to w in the configured format
func (e *Exporter) Export(w io.Writer, chunks []Chunk) error {
	records := e.buildRecords(chunks)

	switch e.config.Format {
	case ExportFormatJSONL:
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding chunk %s: %w", rec.ID, err)
			}
		}
		return nil

	case ExportFormatJSON:
		enc := json.NewEncoder(w)
		if e.config.PrettyPrint {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding chunks: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes the chunks to the named file, creating or truncating it
func (e *Exporter) ExportToFile(path string, chunks []Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := e.Export(f, chunks); err != nil {
		return err
	}
	return f.Sync()
}

// ExportToString renders the chunks to a string
func (e *Exporter) ExportToString(chunks []Chunk) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(&buf, chunks); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Exporter) buildRecords(chunks []Chunk) []ExportRecord {
	records := make([]ExportRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = ExportRecord{
			ID:        uuid.NewString(),
			Content:   chunk.Content,
			SourceURL: e.config.SourceURL,
			Metadata:  chunk.Metadata,
		}
	}
	return records
}

// PrepareForVectorDB converts chunks to export records without serializing,
// for callers that push directly into a vector store client.
func PrepareForVectorDB(chunks []Chunk, sourceURL string) []ExportRecord {
	e := &Exporter{config: ExportConfig{SourceURL: sourceURL}}
	return e.buildRecords(chunks)
}
