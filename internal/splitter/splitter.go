package splitter

import (
	"regexp"
	"strings"
)

// Sentence splits raw document text into an ordered sequence of trimmed,
// non-empty sentences. Terminal punctuation is consumed by the delimiter, so
// returned sentences carry none. Abbreviations and decimal numbers may be
// mis-split; that is an accepted approximation of a delimiter-based splitter.
type Sentence struct {
	delim *regexp.Regexp
}

// NewSentence creates a splitter that cuts on runs of sentence-ending
// punctuation.
func NewSentence() *Sentence {
	return &Sentence{delim: regexp.MustCompile(`[.!?]+`)}
}

// Split returns the sentences of text in original order. Empty or
// whitespace-only input yields an empty sequence.
func (s *Sentence) Split(text string) []string {
	parts := s.delim.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
