package rag

import "unicode"

// Boundary detection locates the best available cut offset inside a span of
// text, trying strategies in strict priority order: paragraph break, then
// sentence break, then single line break, then word boundary, then a hard
// cut at the target offset. The fallback tier guarantees a valid offset
// exists for any span longer than the target, so boundary selection never
// fails.

// BoundaryTier identifies which strategy produced a cut offset.
type BoundaryTier int

const (
	// BoundaryParagraph is a blank-line paragraph break
	BoundaryParagraph BoundaryTier = iota
	// BoundarySentence is sentence-ending punctuation followed by whitespace
	BoundarySentence
	// BoundaryLine is a single line break
	BoundaryLine
	// BoundaryWord is a whitespace run between words
	BoundaryWord
	// BoundaryHardCut is a forced cut at the target offset, possibly
	// mid-word
	BoundaryHardCut
)

// String returns a human-readable representation of the boundary tier
func (bt BoundaryTier) String() string {
	switch bt {
	case BoundaryParagraph:
		return "paragraph"
	case BoundarySentence:
		return "sentence"
	case BoundaryLine:
		return "line"
	case BoundaryWord:
		return "word"
	case BoundaryHardCut:
		return "hard_cut"
	default:
		return "unknown"
	}
}

// FindBoundary locates the cut offset for text at or after target, returning
// the offset and the tier that produced it. Offsets are rune indexes. If
// target is at or beyond the end of text, the text length is returned
// unchanged.
func FindBoundary(text []rune, target int) (int, BoundaryTier) {
	if target >= len(text) {
		return len(text), BoundaryHardCut
	}

	if pos := paragraphBreakAfter(text, target); pos >= 0 {
		return pos, BoundaryParagraph
	}
	if pos := sentenceBreakAfter(text, target); pos >= 0 {
		return pos, BoundarySentence
	}
	if pos := lineBreakAfter(text, target); pos >= 0 {
		return pos, BoundaryLine
	}
	if pos := wordBoundaryAfter(text, target); pos >= 0 {
		return pos, BoundaryWord
	}
	return target, BoundaryHardCut
}

// findSplitForward is the accumulator's view of boundary detection: just the
// cut offset, searched forward from target.
func findSplitForward(text []rune, target int) int {
	pos, _ := FindBoundary(text, target)
	return pos
}

// paragraphBreakAfter finds the first paragraph break at or after target: a
// line break followed by an optionally whitespace-only line and another line
// break. The cut lands immediately after the closing break. Returns -1 when
// no paragraph break exists.
func paragraphBreakAfter(text []rune, target int) int {
	for i := target; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j < len(text) && text[j] == '\n' {
			return j + 1
		}
	}
	return -1
}

// sentenceBreakAfter finds the first sentence-ending punctuation mark at or
// after target that is followed by whitespace. The cut lands after the
// whitespace run. Returns -1 when no sentence break exists.
func sentenceBreakAfter(text []rune, target int) int {
	for i := target; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		if i+1 >= len(text) || !unicode.IsSpace(text[i+1]) {
			continue
		}
		j := i + 1
		for j < len(text) && unicode.IsSpace(text[j]) {
			j++
		}
		return j
	}
	return -1
}

// lineBreakAfter finds the first line break at or after target, cutting
// immediately after it. Returns -1 when no line break exists.
func lineBreakAfter(text []rune, target int) int {
	for i := target; i < len(text); i++ {
		if text[i] == '\n' {
			return i + 1
		}
	}
	return -1
}

// wordBoundaryAfter finds the first whitespace run at or after target,
// cutting immediately after the run. Returns -1 when the remainder of the
// span contains no whitespace.
func wordBoundaryAfter(text []rune, target int) int {
	for i := target; i < len(text); i++ {
		if !unicode.IsSpace(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && unicode.IsSpace(text[j]) {
			j++
		}
		return j
	}
	return -1
}
