package rag

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidConfig is returned when a chunker is constructed with an
// unusable size/overlap combination.
var ErrInvalidConfig = fmt.Errorf("rag: invalid chunker configuration")

// headingPattern matches an ATX markdown heading: one to six '#' characters,
// whitespace, then the heading text. Compiled once at package init and
// read-only thereafter.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ChunkMetadata describes a finished chunk's context within its document
type ChunkMetadata struct {
	// Heading is the text of the most recent heading seen before or within
	// this chunk; empty if no heading has been seen yet
	Heading string `json:"heading,omitempty"`

	// Level is the heading depth (1-6), 0 if no heading is active
	Level int `json:"level"`

	// Position is the zero-based index of this chunk in the document's
	// output sequence; strictly increasing with no gaps
	Position int `json:"position"`

	// WordCount is the number of whitespace-delimited words in the content
	WordCount int `json:"word_count"`

	// CharCount is the number of Unicode code points in the content
	CharCount int `json:"char_count"`

	// SemanticDensity is a heuristic information-density score, typically
	// in [0, 1.2]; see Density for the scoring rules
	SemanticDensity float64 `json:"semantic_density"`
}

// Chunk is one bounded span of document text plus its metadata. Chunks are
// created exactly once when the accumulator finalizes a span and are never
// merged or split afterward.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Chunker is the capability implemented by chunk accumulators. Only one
// concrete implementation exists, but the seam allows alternative sizing
// strategies (token-based rather than character-based, for example) to be
// substituted without touching callers.
type Chunker interface {
	// AddLine feeds one line of input (without its trailing line break) and
	// returns the chunk completed by this call, if any.
	AddLine(line string) *Chunk

	// Finalize flushes any buffered text as a final chunk and returns the
	// full ordered chunk sequence. The chunker accepts no further input
	// afterward.
	Finalize() []Chunk

	// ChunkSize returns the configured soft maximum chunk size in runes.
	ChunkSize() int

	// ChunkOverlap returns the configured overlap size in runes.
	ChunkOverlap() int
}

// SplitPolicy names the strategy used to locate a cut offset when the
// buffer overflows.
type SplitPolicy int

const (
	// SplitPolicyForward searches forward from the target offset
	// (chunkSize - chunkOverlap) for the nearest acceptable boundary. It
	// emits eagerly: the first good break at or after the target wins,
	// favoring intact structure over exact sizing. A backward search from
	// the buffer end would bound chunk sizes more tightly; that variant is
	// intentionally not implemented.
	SplitPolicyForward SplitPolicy = iota
)

// String returns a human-readable representation of the split policy
func (sp SplitPolicy) String() string {
	switch sp {
	case SplitPolicyForward:
		return "forward"
	default:
		return "unknown"
	}
}

// StreamingChunker accumulates lines into chunks in a single forward pass.
// Memory is bounded by chunkSize plus the longest input line: the overflow
// check runs immediately after every appended line.
//
// A StreamingChunker is not safe for concurrent use and must not be reused
// across documents.
type StreamingChunker struct {
	chunkSize    int
	chunkOverlap int
	policy       SplitPolicy

	current   []rune
	heading   string
	level     int
	position  int
	completed []Chunk
	finalized bool
}

// Compile-time interface check
var _ Chunker = (*StreamingChunker)(nil)

// NewStreamingChunker creates a chunker that emits chunks of at most
// chunkSize runes (soft limit) with chunkOverlap runes of trailing context
// carried into each subsequent chunk.
//
// The configuration is rejected with ErrInvalidConfig when chunkSize is not
// positive, chunkOverlap is negative, or chunkOverlap >= chunkSize; clamping
// silently would hide caller bugs.
func NewStreamingChunker(chunkSize, chunkOverlap int) (*StreamingChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidConfig, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d must not be negative", ErrInvalidConfig, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfig, chunkOverlap, chunkSize)
	}

	return &StreamingChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		policy:       SplitPolicyForward,
		current:      make([]rune, 0, chunkSize+chunkOverlap),
	}, nil
}

// ChunkSize returns the configured soft maximum chunk size in runes
func (c *StreamingChunker) ChunkSize() int { return c.chunkSize }

// ChunkOverlap returns the configured overlap size in runes
func (c *StreamingChunker) ChunkOverlap() int { return c.chunkOverlap }

// Policy returns the split-point search policy in effect
func (c *StreamingChunker) Policy() SplitPolicy { return c.policy }

// AddLine feeds one line of input. The line must not contain its trailing
// line break. Every line is valid input: a line either matches the heading
// pattern or is treated as body text, so AddLine cannot fail.
//
// When a heading line arrives, any buffered content is closed as a chunk
// first; a chunk never spans two headings. When appending a body line pushes
// the buffer past the chunk size, the buffer is split at the best available
// boundary and the finished portion emitted.
//
// AddLine returns the most recently completed chunk when this call produced
// one, and nil otherwise. Calls after Finalize are ignored.
func (c *StreamingChunker) AddLine(line string) *Chunk {
	if c.finalized {
		return nil
	}

	emitted := len(c.completed)

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		if len(c.current) > 0 {
			c.emitCurrent()
		}
		c.level = len(m[1])
		c.heading = m[2]
		c.current = append(c.current[:0], []rune(line)...)
	} else {
		if len(c.current) > 0 {
			c.current = append(c.current, '\n')
		}
		c.current = append(c.current, []rune(line)...)

		if len(c.current) > c.chunkSize {
			c.splitOverflow()
		}
	}

	if len(c.completed) > emitted {
		return &c.completed[len(c.completed)-1]
	}
	return nil
}

// Finalize flushes any remaining buffered text as the final chunk (which has
// no upper size bound) and returns the full ordered chunk sequence. The
// chunker accepts no further input afterward.
func (c *StreamingChunker) Finalize() []Chunk {
	if !c.finalized {
		c.finalized = true
		if len(c.current) > 0 {
			c.emitCurrent()
		}
	}
	return c.completed
}

// emitCurrent closes the buffered text as a chunk and resets the buffer.
// The heading context survives across chunk boundaries within a section.
func (c *StreamingChunker) emitCurrent() {
	c.completed = append(c.completed, newChunk(string(c.current), c.heading, c.level, c.position))
	c.position++
	c.current = c.current[:0]
}

// splitOverflow cuts the oversized buffer at boundary-detected offsets until
// it fits, seeding each successor with the trailing overlap of its
// predecessor. A single very long line can require several cuts.
func (c *StreamingChunker) splitOverflow() {
	for len(c.current) > c.chunkSize {
		target := c.chunkSize - c.chunkOverlap
		if target < 0 {
			target = 0
		}

		cut := findSplitForward(c.current, target)
		if cut >= len(c.current) {
			// Only boundary is the buffer end; wait for more input
			return
		}

		first := c.current[:cut]
		c.completed = append(c.completed, newChunk(string(first), c.heading, c.level, c.position))
		c.position++

		seedStart := len(first) - c.chunkOverlap
		if seedStart < 0 {
			seedStart = 0
		}
		seed := first[seedStart:]
		rest := []rune(strings.TrimSpace(string(c.current[cut:])))

		next := make([]rune, 0, len(seed)+len(rest))
		next = append(next, seed...)
		next = append(next, rest...)

		if len(next) >= len(c.current) {
			// No forward progress possible (overlap swallows the whole cut);
			// keep the buffer and let the final flush handle it
			c.current = next
			return
		}
		c.current = next
	}
}

// newChunk builds a chunk value, computing word count, rune count, and
// semantic density from the final content.
func newChunk(content, heading string, level, position int) Chunk {
	return Chunk{
		Content: content,
		Metadata: ChunkMetadata{
			Heading:         heading,
			Level:           level,
			Position:        position,
			WordCount:       len(strings.Fields(content)),
			CharCount:       utf8.RuneCountInString(content),
			SemanticDensity: Density(content),
		},
	}
}

// ChunkText splits a complete document into chunks in one call. Line breaks
// are normalized to \n before processing, so CRLF and lone-CR input behave
// identically to LF input.
func ChunkText(text string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	chunker, err := NewStreamingChunker(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(normalizeLineBreaks(text), "\n") {
		chunker.AddLine(line)
	}

	return chunker.Finalize(), nil
}

// ChunkContents is a convenience wrapper for callers that want only the
// chunk text, discarding metadata.
func ChunkContents(text string, chunkSize, chunkOverlap int) ([]string, error) {
	chunks, err := ChunkText(text, chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	return contents, nil
}

// normalizeLineBreaks rewrites \r\n and lone \r to \n. The input is returned
// unchanged when it contains no carriage returns.
func normalizeLineBreaks(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
