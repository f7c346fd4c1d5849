// Package full implements the fully connected layer.
package full

import (
	"math/rand"

	"github.com/verseml/poetgpt/tensor"
)

// Layer is a linear projection y = x@W + b over the last dimension.
type Layer struct {
	W *tensor.Tensor // (in, out)
	B *tensor.Tensor // (out), nil without bias

	x *tensor.Tensor // forward cache
}

// New returns a linear layer with gaussian weights and zero bias.
func New(rng *rand.Rand, in, out int, bias bool) *Layer {
	l := &Layer{W: tensor.Randn(rng, 0.08, in, out)}
	if bias {
		l.B = tensor.New(out)
	}
	return l
}

// Forward projects the last dimension of x from in to out features.
func (l *Layer) Forward(x *tensor.Tensor) *tensor.Tensor {
	l.x = x
	y := tensor.MatMul(x, l.W)
	if l.B != nil {
		out := l.W.Shape[1]
		for r := 0; r < y.Rows(); r++ {
			row := y.Data[r*out : (r+1)*out]
			for j := range row {
				row[j] += l.B.Data[j]
			}
		}
	}
	y.Shape = outShape(x.Shape, l.W.Shape[1])
	return y
}

// Backward accumulates dW and db and returns dx.
func (l *Layer) Backward(grad *tensor.Tensor) *tensor.Tensor {
	dw := tensor.MatMulTA(l.x, grad)
	for i, g := range dw.Data {
		l.W.Grad[i] += g
	}
	if l.B != nil {
		out := l.W.Shape[1]
		for r := 0; r < grad.Rows(); r++ {
			row := grad.Data[r*out : (r+1)*out]
			for j := range row {
				l.B.Grad[j] += row[j]
			}
		}
	}
	dx := tensor.MatMulTB(grad, l.W)
	dx.Shape = append([]int(nil), l.x.Shape...)
	return dx
}

// Params lists the trainables.
func (l *Layer) Params() []*tensor.Tensor {
	if l.B == nil {
		return []*tensor.Tensor{l.W}
	}
	return []*tensor.Tensor{l.W, l.B}
}

func outShape(in []int, out int) []int {
	shape := append([]int(nil), in...)
	shape[len(shape)-1] = out
	return shape
}
