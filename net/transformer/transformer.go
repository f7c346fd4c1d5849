// Package transformer implements the autoregressive transformer language model.
package transformer

import (
	"math"
	"math/rand"

	"github.com/verseml/poetgpt/layer"
	"github.com/verseml/poetgpt/layer/attention"
	"github.com/verseml/poetgpt/layer/embedding"
	"github.com/verseml/poetgpt/layer/feedforward"
	"github.com/verseml/poetgpt/layer/full"
	"github.com/verseml/poetgpt/layer/layernorm"
	"github.com/verseml/poetgpt/tensor"
)

// Config fixes the model family. Only SeqLen and VocabSize vary per run; the
// width constants are properties of the family.
type Config struct {
	VocabSize int
	SeqLen    int
	Embd      int
	Heads     int
	Layers    int
}

// DefaultConfig returns the family defaults for a vocabulary and window.
func DefaultConfig(vocabSize, seqLen int) Config {
	return Config{
		VocabSize: vocabSize,
		SeqLen:    seqLen,
		Embd:      128,
		Heads:     4,
		Layers:    2,
	}
}

// Block is one pre-norm transformer block with residual connections.
type Block struct {
	Ln1  *layernorm.Layer
	Attn *attention.Layer
	Ln2  *layernorm.Layer
	MLP  *feedforward.Layer
}

func newBlock(rng *rand.Rand, cfg Config) *Block {
	return &Block{
		Ln1:  layernorm.New(cfg.Embd),
		Attn: attention.New(rng, cfg.Embd, cfg.Heads),
		Ln2:  layernorm.New(cfg.Embd),
		MLP:  feedforward.New(rng, cfg.Embd),
	}
}

func (b *Block) forward(x *tensor.Tensor) *tensor.Tensor {
	a := b.Attn.Forward(b.Ln1.Forward(x))
	for i := range a.Data {
		a.Data[i] += x.Data[i]
	}
	m := b.MLP.Forward(b.Ln2.Forward(a))
	for i := range m.Data {
		m.Data[i] += a.Data[i]
	}
	return m
}

func (b *Block) backward(grad *tensor.Tensor) *tensor.Tensor {
	da := b.Ln2.Backward(b.MLP.Backward(grad))
	for i := range da.Data {
		da.Data[i] += grad.Data[i]
	}
	dx := b.Ln1.Backward(b.Attn.Backward(da))
	for i := range dx.Data {
		dx.Data[i] += da.Data[i]
	}
	return dx
}

func (b *Block) params() []*tensor.Tensor {
	var params []*tensor.Tensor
	for _, l := range []layer.Layer{b.Ln1, b.Attn, b.Ln2, b.MLP} {
		params = append(params, l.Params()...)
	}
	return params
}

// Model is the GPT wiring: token and positional embeddings, a block stack,
// the final layernorm and the language model head.
type Model struct {
	Config

	Wte    *embedding.Layer
	Wpe    *embedding.Layer
	Blocks []*Block
	Lnf    *layernorm.Layer
	Head   *full.Layer

	// loss caches
	probs   []float64
	targets []int
	batch   int
	steps   int
}

// New builds a model with freshly initialized weights.
func New(cfg Config, rng *rand.Rand) *Model {
	m := &Model{
		Config: cfg,
		Wte:    embedding.New(rng, cfg.VocabSize, cfg.Embd),
		Wpe:    embedding.New(rng, cfg.SeqLen, cfg.Embd),
		Lnf:    layernorm.New(cfg.Embd),
		Head:   full.New(rng, cfg.Embd, cfg.VocabSize, false),
	}
	for i := 0; i < cfg.Layers; i++ {
		m.Blocks = append(m.Blocks, newBlock(rng, cfg))
	}
	return m
}

// Forward runs a batch of token windows through the model. It returns the
// logits of shape (batch, seq, vocab) and, when targets are given, the mean
// cross-entropy loss over every position.
func (m *Model) Forward(inputs, targets [][]int) (*tensor.Tensor, float64) {
	B := len(inputs)
	T := len(inputs[0])
	m.batch, m.steps = B, T

	positions := make([][]int, B)
	for b := range positions {
		row := make([]int, T)
		for t := range row {
			row[t] = t
		}
		positions[b] = row
	}

	x := m.Wte.Forward(inputs)
	pos := m.Wpe.Forward(positions)
	for i := range x.Data {
		x.Data[i] += pos.Data[i]
	}

	for _, blk := range m.Blocks {
		x = blk.forward(x)
	}
	x = m.Lnf.Forward(x)
	logits := m.Head.Forward(x)

	if targets == nil {
		m.probs = nil
		m.targets = nil
		return logits, 0
	}
	return logits, m.crossEntropy(logits, targets)
}

// crossEntropy computes the mean negative log likelihood and caches the
// softmax rows for Backward.
func (m *Model) crossEntropy(logits *tensor.Tensor, targets [][]int) float64 {
	rows, V := logits.Rows(), logits.Cols()
	if len(m.probs) != rows*V {
		m.probs = make([]float64, rows*V)
	}
	m.targets = m.targets[:0]
	for _, row := range targets {
		m.targets = append(m.targets, row...)
	}

	var loss float64
	for r := 0; r < rows; r++ {
		in := logits.Data[r*V : (r+1)*V]
		out := m.probs[r*V : (r+1)*V]

		maxLogit := in[0]
		for _, v := range in[1:] {
			if v > maxLogit {
				maxLogit = v
			}
		}
		var sum float64
		for j, v := range in {
			e := math.Exp(v - maxLogit)
			out[j] = e
			sum += e
		}
		for j := range out {
			out[j] /= sum
		}
		loss -= math.Log(out[m.targets[r]])
	}
	return loss / float64(rows)
}

// Backward propagates the cross-entropy gradient of the last Forward call
// into every parameter. Forward must have been called with targets.
func (m *Model) Backward() {
	if m.probs == nil {
		panic("transformer: Backward without a loss-bearing Forward")
	}
	rows := len(m.targets)
	V := m.VocabSize

	dlogits := tensor.New(m.batch, m.steps, V)
	inv := 1 / float64(rows)
	for r := 0; r < rows; r++ {
		out := dlogits.Data[r*V : (r+1)*V]
		copy(out, m.probs[r*V:(r+1)*V])
		out[m.targets[r]] -= 1
		for j := range out {
			out[j] *= inv
		}
	}

	dx := m.Lnf.Backward(m.Head.Backward(dlogits))
	for i := len(m.Blocks) - 1; i >= 0; i-- {
		dx = m.Blocks[i].backward(dx)
	}
	m.Wte.Backward(dx)
	m.Wpe.Backward(dx)
}

// Params lists every trainable tensor in a stable order.
func (m *Model) Params() []*tensor.Tensor {
	params := append(m.Wte.Params(), m.Wpe.Params()...)
	for _, blk := range m.Blocks {
		params = append(params, blk.params()...)
	}
	params = append(params, m.Lnf.Params()...)
	return append(params, m.Head.Params()...)
}

// ZeroGrads clears every parameter gradient.
func (m *Model) ZeroGrads() {
	for _, p := range m.Params() {
		p.ZeroGrad()
	}
}

// NumParams counts the trainable scalars.
func (m *Model) NumParams() int {
	var n int
	for _, p := range m.Params() {
		n += p.Size()
	}
	return n
}
