// Package rag provides streaming semantic chunking for RAG
// (Retrieval-Augmented Generation) workflows.
//
// The chunking engine consumes a markdown or plain-text document one line at
// a time and emits bounded chunks that respect document structure: heading
// transitions always close the current chunk, splits prefer paragraph and
// sentence boundaries over mid-word cuts, and consecutive chunks carry a
// configurable character overlap for retrieval continuity. Processing is a
// single forward pass with memory bounded by the chunk size plus the longest
// input line.
//
// Basic usage:
//
//	chunks, err := rag.ChunkText(markdown, 1000, 200)
//	if err != nil {
//	    // invalid size/overlap configuration
//	}
//	for _, c := range chunks {
//	    fmt.Println(c.Metadata.Position, c.Metadata.Heading, c.Metadata.SemanticDensity)
//	}
//
// For incremental input, use the accumulator directly:
//
//	chunker, err := rag.NewStreamingChunker(1000, 200)
//	for scanner.Scan() {
//	    chunker.AddLine(scanner.Text())
//	}
//	chunks := chunker.Finalize()
//
// A single chunker must not be shared across documents or goroutines; run
// one chunker per document. Independent chunkers are safe to run
// concurrently.
package rag
