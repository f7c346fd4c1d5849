package main

import "flag"
import "fmt"
import "math"
import "math/rand"
import "os"

import "github.com/verseml/poetgpt/datasets/gutenberg"
import "github.com/verseml/poetgpt/net/transformer"
import "github.com/verseml/poetgpt/tokenizer"

func main() {
	corpus := flag.String("corpus", "gutenberg_poetry_corpus.ndjson", "ndjson poetry corpus the model was trained on")
	srcmodel := flag.String("srcmodel", "", "trained model .json.t.lzw file")
	seqlen := flag.Int("seqlen", 128, "max sequence length of the model")
	prompt := flag.String("prompt", "The ", "prompt to continue")
	length := flag.Int("length", 256, "number of characters to generate")
	temperature := flag.Float64("temperature", 0.8, "sampling temperature")
	seed := flag.Int64("seed", 10, "rng seed")
	flag.Parse()

	if *srcmodel == "" {
		println("srcmodel is required")
		os.Exit(1)
	}

	// The tokenizer is not stored with the weights, rebuild it from the corpus.
	text, err := gutenberg.ReadText(*corpus)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	tok := tokenizer.New(text)

	model := transformer.New(transformer.DefaultConfig(tok.VocabSize(), *seqlen), rand.New(rand.NewSource(0)))
	if err := model.ReadWeightsFromFile(*srcmodel); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	tokens := tok.Encode(*prompt)
	if len(tokens) == 0 {
		println("prompt encodes to no tokens")
		os.Exit(1)
	}

	fmt.Print(*prompt)
	for i := 0; i < *length; i++ {
		window := tokens
		if len(window) > *seqlen {
			window = window[len(window)-*seqlen:]
		}
		logits, _ := model.Forward([][]int{window}, nil)

		next := sample(rng, lastRow(logits.Data, len(window), tok.VocabSize()), *temperature)
		tokens = append(tokens, next)
		fmt.Print(tok.Decode([]int{next}))
	}
	fmt.Println()
}

// lastRow returns the logits of the final position of a single sequence.
func lastRow(data []float64, steps, vocab int) []float64 {
	return data[(steps-1)*vocab : steps*vocab]
}

// sample draws one token id from the temperature scaled softmax of a logits row.
func sample(rng *rand.Rand, logits []float64, temperature float64) int {
	probs := make([]float64, len(logits))
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp((v - maxLogit) / temperature)
		sum += probs[i]
	}

	r := rng.Float64() * sum
	for i, p := range probs {
		r -= p
		if r <= 0 {
			return i
		}
	}
	return len(probs) - 1
}
