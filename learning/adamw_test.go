package learning

import (
	"math"
	"testing"

	"github.com/verseml/poetgpt/tensor"
)

// first step closed form test
func TestAdamWFirstStep(t *testing.T) {
	h := NewHyperParameters(0.1, 0, 10)
	h.WeightDecay = 0

	p := tensor.New(2)
	p.Data[0], p.Data[1] = 1, -2
	p.Grad[0], p.Grad[1] = 0.5, -0.25
	params := []*tensor.Tensor{p}

	o := NewAdamW(h, params)
	o.Step(params, 0.1)

	// with bias correction the first update is lr * g/(|g|+eps)
	for i, g := range []float64{0.5, -0.25} {
		start := []float64{1, -2}[i]
		want := start - 0.1*g/(math.Abs(g)+h.Eps)
		if math.Abs(p.Data[i]-want) > 1e-9 {
			t.Errorf("param %d: got %v, want %v", i, p.Data[i], want)
		}
	}
}

// decoupled weight decay test
func TestAdamWDecay(t *testing.T) {
	h := NewHyperParameters(0.1, 0, 10)
	h.WeightDecay = 0.5

	p := tensor.New(1)
	p.Data[0] = 2 // zero grad, decay only
	params := []*tensor.Tensor{p}

	o := NewAdamW(h, params)
	o.Step(params, 0.1)

	want := 2 * (1 - 0.1*0.5)
	if math.Abs(p.Data[0]-want) > 1e-12 {
		t.Errorf("decayed param: got %v, want %v", p.Data[0], want)
	}
}

// quadratic convergence test
func TestAdamWConverges(t *testing.T) {
	h := NewHyperParameters(0.05, 0, 1000)
	h.WeightDecay = 0

	p := tensor.New(1)
	p.Data[0] = 3
	params := []*tensor.Tensor{p}
	o := NewAdamW(h, params)

	for step := 0; step < 500; step++ {
		p.Grad[0] = 2 * p.Data[0] // d/dx of x^2
		o.Step(params, 0.05)
		p.ZeroGrad()
	}
	if math.Abs(p.Data[0]) > 0.2 {
		t.Errorf("did not approach the minimum: %v", p.Data[0])
	}
}
