// Package layernorm implements layer normalization with learned gain and bias.
package layernorm

import (
	"math"

	"github.com/verseml/poetgpt/tensor"
)

const eps = 1e-5

// Layer normalizes each row of the last dimension to zero mean and unit
// variance, then applies the learned affine transform.
type Layer struct {
	G *tensor.Tensor // gain, (dim)
	B *tensor.Tensor // bias, (dim)

	xhat   []float64 // forward cache, normalized rows
	invstd []float64 // forward cache, per row
	shape  []int
}

// New returns a layernorm with unit gain and zero bias.
func New(dim int) *Layer {
	l := &Layer{G: tensor.New(dim), B: tensor.New(dim)}
	for i := range l.G.Data {
		l.G.Data[i] = 1
	}
	return l
}

// Forward normalizes x row by row over the last dimension.
func (l *Layer) Forward(x *tensor.Tensor) *tensor.Tensor {
	rows, dim := x.Rows(), x.Cols()
	l.shape = append([]int(nil), x.Shape...)
	if len(l.xhat) != rows*dim {
		l.xhat = make([]float64, rows*dim)
	}
	if len(l.invstd) != rows {
		l.invstd = make([]float64, rows)
	}
	out := tensor.New(x.Shape...)
	for r := 0; r < rows; r++ {
		row := x.Data[r*dim : (r+1)*dim]
		var mean float64
		for _, v := range row {
			mean += v
		}
		mean /= float64(dim)
		var variance float64
		for _, v := range row {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(dim)
		invstd := 1 / math.Sqrt(variance+eps)
		l.invstd[r] = invstd
		for j, v := range row {
			xh := (v - mean) * invstd
			l.xhat[r*dim+j] = xh
			out.Data[r*dim+j] = xh*l.G.Data[j] + l.B.Data[j]
		}
	}
	return out
}

// Backward accumulates gain and bias gradients and returns dx.
func (l *Layer) Backward(grad *tensor.Tensor) *tensor.Tensor {
	rows, dim := grad.Rows(), grad.Cols()
	dx := tensor.New(l.shape...)
	for r := 0; r < rows; r++ {
		g := grad.Data[r*dim : (r+1)*dim]
		xh := l.xhat[r*dim : (r+1)*dim]

		var meanDxhat, meanDxhatXhat float64
		for j := range g {
			dxh := g[j] * l.G.Data[j]
			meanDxhat += dxh
			meanDxhatXhat += dxh * xh[j]
			l.G.Grad[j] += g[j] * xh[j]
			l.B.Grad[j] += g[j]
		}
		meanDxhat /= float64(dim)
		meanDxhatXhat /= float64(dim)

		for j := range g {
			dxh := g[j] * l.G.Data[j]
			dx.Data[r*dim+j] = l.invstd[r] * (dxh - meanDxhat - xh[j]*meanDxhatXhat)
		}
	}
	return dx
}

// Params lists the trainables.
func (l *Layer) Params() []*tensor.Tensor {
	return []*tensor.Tensor{l.G, l.B}
}
