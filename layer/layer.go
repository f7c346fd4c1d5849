// Package layer defines the contract shared by the transformer layers.
package layer

import "github.com/verseml/poetgpt/tensor"

// Layer is a differentiable stage mapping activations to activations.
// Forward caches whatever Backward needs; Backward takes the gradient of the
// loss with respect to the output and returns it with respect to the input,
// accumulating parameter gradients along the way.
type Layer interface {
	Forward(x *tensor.Tensor) *tensor.Tensor
	Backward(grad *tensor.Tensor) *tensor.Tensor
	Params() []*tensor.Tensor
}
