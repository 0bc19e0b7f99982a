package prompt

import (
	"strings"
	"unicode/utf8"
)

// Stats describes the size of a prompt's content.
type Stats struct {
	Chars           int `json:"chars"` // runes, not bytes
	Words           int `json:"words"`
	EstimatedTokens int `json:"estimated_tokens"`
}

// Roughly 1.3 tokens per word of English prose, rounded up.
const tokensPerTenWords = 13

// Stats computes content statistics for p.
func (p Prompt) Stats() Stats {
	words := len(strings.Fields(p.Content))
	return Stats{
		Chars:           utf8.RuneCountInString(p.Content),
		Words:           words,
		EstimatedTokens: (words*tokensPerTenWords + 9) / 10,
	}
}
