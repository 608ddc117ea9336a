// Package regression implements the optional sequence-regression
// scorer: the essay is tokenized, embedded per token, optionally made
// question-aware by concatenating the pooled prompt embedding, shaped
// into a fixed-length tensor, and fed through an injected regressor
// that emits a raw score in [0, 1].
//
// The result is reported alongside the criteria-based score, never
// blended into it.
package regression

import (
	"strings"
	"unicode"
)

// DefaultMaxSequenceLength bounds the token sequence fed to the
// regressor. Longer essays are truncated, shorter ones zero-padded.
const DefaultMaxSequenceLength = 512

// Tokenize splits text into lowercase word tokens, stripping
// punctuation, truncated to at most limit tokens. A non-positive limit
// falls back to DefaultMaxSequenceLength.
func Tokenize(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxSequenceLength
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})

	tokens := make([]string, 0, min(len(fields), limit))
	for _, f := range fields {
		if len(tokens) == limit {
			break
		}
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}
