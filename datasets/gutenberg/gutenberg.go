// Package gutenberg loads the Gutenberg poetry corpus: newline-delimited
// json records with the verse line in the "s" field.
package gutenberg

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type record struct {
	S string `json:"s"`
}

// ReadText reads the corpus and concatenates every verse line in file order.
func ReadText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open corpus")
	}
	defer file.Close()

	var text strings.Builder
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return "", errors.Wrapf(err, "corpus line %d", line)
		}
		text.WriteString(rec.S)
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "read corpus")
	}
	if text.Len() == 0 {
		return "", errors.New("empty corpus")
	}
	return text.String(), nil
}

// Windows chunks the token stream into fixed windows of seqLen inputs and
// their next-token labels. The label stream is the input stream shifted left
// by one with a trailing zero; the final window of each stream is right
// padded with zeros.
func Windows(tokens []int, seqLen int) (inputs, labels [][]int) {
	if len(tokens) == 0 || seqLen < 1 {
		return nil, nil
	}

	shifted := make([]int, len(tokens))
	copy(shifted, tokens[1:])

	pad := func(stream []int) [][]int {
		var out [][]int
		for i := 0; i < len(stream); i += seqLen {
			end := i + seqLen
			if end > len(stream) {
				end = len(stream)
			}
			window := make([]int, seqLen)
			copy(window, stream[i:end])
			out = append(out, window)
		}
		return out
	}
	return pad(tokens), pad(shifted)
}
