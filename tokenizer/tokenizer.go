// Package tokenizer implements the character level tokenizer for the poetry corpus.
package tokenizer

import "sort"

// Pad is the reserved token id used for right-padding the final window.
// No character maps to it.
const Pad = 0

// Tokenizer maps corpus characters to dense token ids and back.
// Id 0 is reserved for padding, so real characters start at 1.
type Tokenizer struct {
	runes   []rune
	toToken map[rune]int
}

// New builds a tokenizer over the set of characters occurring in text.
// The vocabulary is deterministic: unique runes in sorted order.
func New(text string) *Tokenizer {
	set := make(map[rune]struct{})
	for _, ch := range text {
		set[ch] = struct{}{}
	}
	runes := make([]rune, 0, len(set))
	for ch := range set {
		runes = append(runes, ch)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	toToken := make(map[rune]int, len(runes))
	for i, ch := range runes {
		toToken[ch] = i + 1
	}
	return &Tokenizer{runes: runes, toToken: toToken}
}

// VocabSize reports the number of token ids, the pad id included.
func (t *Tokenizer) VocabSize() int {
	return len(t.runes) + 1
}

// Encode converts text to token ids. Characters outside the vocabulary
// encode as Pad.
func (t *Tokenizer) Encode(text string) []int {
	out := make([]int, 0, len(text))
	for _, ch := range text {
		out = append(out, t.toToken[ch])
	}
	return out
}

// Decode converts token ids back to text. Pad decodes to nothing.
func (t *Tokenizer) Decode(tokens []int) string {
	out := make([]rune, 0, len(tokens))
	for _, id := range tokens {
		if id <= 0 || id > len(t.runes) {
			continue
		}
		out = append(out, t.runes[id-1])
	}
	return string(out)
}
