package rag

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewStreamingChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 1000, 200, false},
		{"valid zero overlap", 100, 0, false},
		{"zero size", 0, 0, true},
		{"negative size", -10, 0, true},
		{"negative overlap", 100, -1, true},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewStreamingChunker(tt.size, tt.overlap)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Error should wrap ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if chunker.ChunkSize() != tt.size {
				t.Errorf("ChunkSize() = %d, want %d", chunker.ChunkSize(), tt.size)
			}
			if chunker.ChunkOverlap() != tt.overlap {
				t.Errorf("ChunkOverlap() = %d, want %d", chunker.ChunkOverlap(), tt.overlap)
			}
		})
	}
}

func TestChunkText_TwoSections(t *testing.T) {
	input := "# Title\n\nBody text here.\n\n# Next\n\nMore body."

	chunks, err := ChunkText(input, 1000, 50)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("Expected exactly 2 chunks, got %d", len(chunks))
	}

	first, second := chunks[0], chunks[1]

	if !strings.Contains(first.Content, "# Title") || !strings.Contains(first.Content, "Body text here.") {
		t.Errorf("Unexpected first chunk content: %q", first.Content)
	}
	if !strings.Contains(second.Content, "# Next") || !strings.Contains(second.Content, "More body.") {
		t.Errorf("Unexpected second chunk content: %q", second.Content)
	}

	if first.Metadata.Heading != "Title" || first.Metadata.Level != 1 {
		t.Errorf("Unexpected first chunk heading metadata: %+v", first.Metadata)
	}
	if second.Metadata.Heading != "Next" || second.Metadata.Level != 1 {
		t.Errorf("Unexpected second chunk heading metadata: %+v", second.Metadata)
	}
}

func TestChunkText_LongProseSplits(t *testing.T) {
	prose := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet consectetur ", 130))
	if utf8.RuneCountInString(prose) < 5000 {
		t.Fatalf("Test input too short: %d runes", utf8.RuneCountInString(prose))
	}
	input := "# Intro\n\n" + prose

	const size, overlap = 200, 20

	chunks, err := ChunkText(input, size, overlap)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	if len(chunks) < 10 {
		t.Fatalf("Expected many chunks for 5000 runes at size 200, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		// Hard bound applies to every chunk except the final flushed
		// remainder
		if i < len(chunks)-1 {
			if n := utf8.RuneCountInString(chunk.Content); n > size+overlap {
				t.Errorf("Chunk %d has %d runes, exceeds bound %d", i, n, size+overlap)
			}
		}

		if i == 0 {
			continue
		}
		prev := []rune(chunks[i-1].Content)
		cur := []rune(chunk.Content)
		n := overlap
		if len(prev) < n {
			n = len(prev)
		}
		if string(cur[:n]) != string(prev[len(prev)-n:]) {
			t.Errorf("Chunk %d does not begin with chunk %d's trailing %d runes:\nprev tail %q\ncur head  %q",
				i, i-1, n, string(prev[len(prev)-n:]), string(cur[:n]))
		}
	}
}

func TestChunkText_Determinism(t *testing.T) {
	input := "# A\n\nSome body text with Data and numbers 123.\n\n## B\n\n" +
		strings.Repeat("more words here ", 50)

	first, err := ChunkText(input, 150, 30)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	second, err := ChunkText(input, 150, 30)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Chunking the same input twice produced different output")
	}
}

func TestChunkText_HeadingIsolation(t *testing.T) {
	input := "# One\n\ntext\n\n## Two\n\ntext\n\n### Three\n\ntext\n\n#### Four\n\ntext"

	chunks, err := ChunkText(input, 10000, 100)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	for i, chunk := range chunks {
		headings := 0
		for _, line := range strings.Split(chunk.Content, "\n") {
			if headingPattern.MatchString(line) {
				headings++
			}
		}
		if headings > 1 {
			t.Errorf("Chunk %d contains %d heading lines:\n%s", i, headings, chunk.Content)
		}
	}
}

func TestChunkText_PositionMonotonicity(t *testing.T) {
	input := "# H\n\n" + strings.Repeat("filler words in the body ", 80) + "\n\n# H2\n\nmore"

	chunks, err := ChunkText(input, 120, 20)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	for i, chunk := range chunks {
		if chunk.Metadata.Position != i {
			t.Errorf("Chunk %d has position %d", i, chunk.Metadata.Position)
		}
	}
}

func TestChunkText_MetadataMatchesContent(t *testing.T) {
	input := "# Heading\n\nBody with Unicode: héllo wörld 123.\n\n" +
		strings.Repeat("padding text ", 60)

	chunks, err := ChunkText(input, 180, 40)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("Expected at least one chunk")
	}

	for i, chunk := range chunks {
		if got := len(strings.Fields(chunk.Content)); got != chunk.Metadata.WordCount {
			t.Errorf("Chunk %d word count %d, metadata says %d", i, got, chunk.Metadata.WordCount)
		}
		if got := utf8.RuneCountInString(chunk.Content); got != chunk.Metadata.CharCount {
			t.Errorf("Chunk %d char count %d, metadata says %d", i, got, chunk.Metadata.CharCount)
		}
		if got := Density(chunk.Content); got != chunk.Metadata.SemanticDensity {
			t.Errorf("Chunk %d density %f, metadata says %f", i, got, chunk.Metadata.SemanticDensity)
		}
	}
}

func TestChunkText_HeadingContextCarries(t *testing.T) {
	input := "## Section\n\n" + strings.Repeat("words that overflow the limit ", 30)

	chunks, err := ChunkText(input, 100, 10)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Metadata.Heading != "Section" {
			t.Errorf("Chunk %d lost heading context: %+v", i, chunk.Metadata)
		}
		if chunk.Metadata.Level != 2 {
			t.Errorf("Chunk %d has level %d, want 2", i, chunk.Metadata.Level)
		}
	}
}

func TestChunkText_EmptyInput(t *testing.T) {
	chunks, err := ChunkText("", 100, 10)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Empty input should produce no chunks, got %d", len(chunks))
	}
}

func TestChunkText_LineBreakNormalization(t *testing.T) {
	lf := "# T\n\nline one\nline two"
	crlf := "# T\r\n\r\nline one\r\nline two"
	cr := "# T\r\rline one\rline two"

	want, err := ChunkText(lf, 1000, 50)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}

	for name, input := range map[string]string{"crlf": crlf, "cr": cr} {
		got, err := ChunkText(input, 1000, 50)
		if err != nil {
			t.Fatalf("ChunkText(%s) failed: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s input chunked differently from lf input", name)
		}
	}
}

func TestStreamingChunker_AddLineAfterFinalize(t *testing.T) {
	chunker, err := NewStreamingChunker(100, 10)
	if err != nil {
		t.Fatalf("NewStreamingChunker failed: %v", err)
	}

	chunker.AddLine("some text")
	first := chunker.Finalize()
	if len(first) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(first))
	}

	if chunk := chunker.AddLine("ignored"); chunk != nil {
		t.Error("AddLine after Finalize should return nil")
	}
	if again := chunker.Finalize(); len(again) != 1 {
		t.Errorf("Second Finalize should return the same sequence, got %d chunks", len(again))
	}
}

func TestStreamingChunker_AddLineReturnsCompletedChunk(t *testing.T) {
	chunker, err := NewStreamingChunker(1000, 50)
	if err != nil {
		t.Fatalf("NewStreamingChunker failed: %v", err)
	}

	if chunk := chunker.AddLine("# First"); chunk != nil {
		t.Error("First heading should not complete a chunk")
	}
	if chunk := chunker.AddLine("body"); chunk != nil {
		t.Error("Body line under the size limit should not complete a chunk")
	}

	chunk := chunker.AddLine("# Second")
	if chunk == nil {
		t.Fatal("Heading transition should complete the buffered chunk")
	}
	if !strings.Contains(chunk.Content, "# First") {
		t.Errorf("Completed chunk should hold the first section: %q", chunk.Content)
	}
}

func TestChunkContents(t *testing.T) {
	contents, err := ChunkContents("# A\n\nbody\n\n# B\n\nmore", 1000, 50)
	if err != nil {
		t.Fatalf("ChunkContents failed: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("Expected 2 content strings, got %d", len(contents))
	}
	if !strings.Contains(contents[0], "# A") || !strings.Contains(contents[1], "# B") {
		t.Errorf("Unexpected contents: %q", contents)
	}
}

func TestChunkText_RejectsInvalidConfig(t *testing.T) {
	if _, err := ChunkText("text", 50, 50); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
