// Package embedding implements the token and positional embedding tables.
package embedding

import (
	"math/rand"

	"github.com/verseml/poetgpt/tensor"
)

// Layer looks up embedding rows for integer ids.
type Layer struct {
	W *tensor.Tensor // (vocab, dim)

	ids [][]int // forward cache
}

// New returns an embedding table with gaussian rows.
func New(rng *rand.Rand, vocab, dim int) *Layer {
	return &Layer{W: tensor.Randn(rng, 0.08, vocab, dim)}
}

// Forward gathers rows of W for a (batch, seq) id matrix into (batch, seq, dim).
func (l *Layer) Forward(ids [][]int) *tensor.Tensor {
	l.ids = ids
	dim := l.W.Shape[1]
	out := tensor.New(len(ids), len(ids[0]), dim)
	for b, row := range ids {
		for t, id := range row {
			copy(out.Data[(b*len(row)+t)*dim:], l.W.Data[id*dim:(id+1)*dim])
		}
	}
	return out
}

// Backward scatter-adds the output gradient into the table gradient.
func (l *Layer) Backward(grad *tensor.Tensor) {
	dim := l.W.Shape[1]
	for b, row := range l.ids {
		for t, id := range row {
			g := grad.Data[(b*len(row)+t)*dim : (b*len(row)+t+1)*dim]
			dst := l.W.Grad[id*dim : (id+1)*dim]
			for j := range g {
				dst[j] += g[j]
			}
		}
	}
}

// Params lists the trainables.
func (l *Layer) Params() []*tensor.Tensor {
	return []*tensor.Tensor{l.W}
}
