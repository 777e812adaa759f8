package rag

import (
	"github.com/marklab/marklab/format"
	"github.com/marklab/marklab/model"
)

// ChunkDocument renders a parsed document to markdown and chunks it. Heading
// elements become markdown heading lines, so section boundaries in the
// document become chunk boundaries.
func ChunkDocument(doc *model.Document, chunkSize, chunkOverlap int) ([]Chunk, error) {
	if doc == nil {
		return nil, nil
	}
	return ChunkText(format.RenderMarkdown(doc), chunkSize, chunkOverlap)
}

// ChunkStats summarizes a chunking run
type ChunkStats struct {
	TotalChunks    int     `json:"total_chunks"`
	TotalWords     int     `json:"total_words"`
	TotalChars     int     `json:"total_chars"`
	AvgChunkSize   float64 `json:"avg_chunk_size"`
	AvgDensity     float64 `json:"avg_density"`
	MaxChunkSize   int     `json:"max_chunk_size"`
	MinChunkSize   int     `json:"min_chunk_size"`
	DistinctLevels int     `json:"distinct_levels"`
}

// CalculateStats computes summary statistics over a chunk sequence
func CalculateStats(chunks []Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	stats := ChunkStats{
		TotalChunks:  len(chunks),
		MinChunkSize: chunks[0].Metadata.CharCount,
	}

	levels := make(map[int]struct{})
	var densitySum float64

	for _, chunk := range chunks {
		m := chunk.Metadata
		stats.TotalWords += m.WordCount
		stats.TotalChars += m.CharCount
		densitySum += m.SemanticDensity
		levels[m.Level] = struct{}{}

		if m.CharCount > stats.MaxChunkSize {
			stats.MaxChunkSize = m.CharCount
		}
		if m.CharCount < stats.MinChunkSize {
			stats.MinChunkSize = m.CharCount
		}
	}

	stats.AvgChunkSize = float64(stats.TotalChars) / float64(len(chunks))
	stats.AvgDensity = densitySum / float64(len(chunks))
	stats.DistinctLevels = len(levels)

	return stats
}
