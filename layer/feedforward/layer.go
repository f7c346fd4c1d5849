// Package feedforward implements the transformer MLP block with GELU.
package feedforward

import (
	"math"
	"math/rand"

	"github.com/verseml/poetgpt/layer/full"
	"github.com/verseml/poetgpt/tensor"
)

// Layer is the position-wise MLP: fc1 to 4x width, GELU, fc2 back down.
type Layer struct {
	FC1 *full.Layer
	FC2 *full.Layer

	pre *tensor.Tensor // forward cache, fc1 output before activation
}

// New returns an MLP for embedding width dim.
func New(rng *rand.Rand, dim int) *Layer {
	return &Layer{
		FC1: full.New(rng, dim, 4*dim, true),
		FC2: full.New(rng, 4*dim, dim, true),
	}
}

// Forward applies fc2(gelu(fc1(x))).
func (l *Layer) Forward(x *tensor.Tensor) *tensor.Tensor {
	l.pre = l.FC1.Forward(x)
	act := tensor.New(l.pre.Shape...)
	for i, v := range l.pre.Data {
		act.Data[i] = gelu(v)
	}
	return l.FC2.Forward(act)
}

// Backward chains through fc2, the GELU derivative and fc1.
func (l *Layer) Backward(grad *tensor.Tensor) *tensor.Tensor {
	dact := l.FC2.Backward(grad)
	for i := range dact.Data {
		dact.Data[i] *= geluPrime(l.pre.Data[i])
	}
	return l.FC1.Backward(dact)
}

// Params lists the trainables.
func (l *Layer) Params() []*tensor.Tensor {
	return append(l.FC1.Params(), l.FC2.Params()...)
}

const geluC = 0.7978845608028654 // sqrt(2/pi)

func gelu(x float64) float64 {
	return 0.5 * x * (1 + math.Tanh(geluC*(x+0.044715*x*x*x)))
}

func geluPrime(x float64) float64 {
	u := geluC * (x + 0.044715*x*x*x)
	th := math.Tanh(u)
	du := geluC * (1 + 3*0.044715*x*x)
	return 0.5*(1+th) + 0.5*x*(1-th*th)*du
}
