package rag

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// densityKeywords are terms whose presence in a token suggests technical or
// analytical content. Matching is case-insensitive substring containment, so
// "implementations" and "Subsystem" both count.
var densityKeywords = []string{
	"function", "class", "method", "algorithm", "process",
	"system", "data", "model", "analysis", "implementation",
}

// Density scores how information-dense a span of text is, as a coarse
// heuristic for retrieval ranking. Tokens starting with an uppercase letter
// (named-entity proxy), tokens containing digits, and tokens containing a
// known keyword each raise the score. The result is the capped per-token
// average plus a small length bonus, so values usually land in [0, 1] but
// can reach 1.2 for long keyword-heavy text.
//
// The score is ordinal, not calibrated: compare densities against each
// other, not against fixed thresholds.
func Density(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0.0
	}

	var score float64
	for _, token := range tokens {
		first, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(first) {
			score += 0.5
		}
		if strings.ContainsFunc(token, unicode.IsDigit) {
			score += 0.3
		}
		lower := strings.ToLower(token)
		for _, kw := range densityKeywords {
			if strings.Contains(lower, kw) {
				score += 0.7
				break
			}
		}
	}

	raw := score / float64(len(tokens))
	if raw > 1.0 {
		raw = 1.0
	}

	lengthBonus := float64(len(tokens)) / 100.0
	if lengthBonus > 0.2 {
		lengthBonus = 0.2
	}

	return raw + lengthBonus
}
