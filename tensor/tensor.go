// Package tensor implements the dense float64 tensors the model trains on.
package tensor

import "math/rand"

// Tensor is a dense float64 tensor with a gradient buffer of the same shape.
// The last dimension is the feature dimension; all leading dimensions are
// flattened into rows for matrix products.
type Tensor struct {
	Shape []int
	Data  []float64
	Grad  []float64
}

// New returns a zero tensor of the given shape.
func New(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Tensor{
		Shape: shape,
		Data:  make([]float64, n),
		Grad:  make([]float64, n),
	}
}

// Randn returns a tensor filled with scaled gaussian noise.
func Randn(rng *rand.Rand, scale float64, shape ...int) *Tensor {
	t := New(shape...)
	for i := range t.Data {
		t.Data[i] = rng.NormFloat64() * scale
	}
	return t
}

// Size is the number of elements.
func (t *Tensor) Size() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Rows is the product of all dimensions but the last.
func (t *Tensor) Rows() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Size() / t.Shape[len(t.Shape)-1]
}

// Cols is the last dimension.
func (t *Tensor) Cols() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[len(t.Shape)-1]
}

// ZeroGrad clears the gradient buffer.
func (t *Tensor) ZeroGrad() {
	for i := range t.Grad {
		t.Grad[i] = 0
	}
}
