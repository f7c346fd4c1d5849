package learning

import (
	"math"

	"github.com/verseml/poetgpt/parallel"
	"github.com/verseml/poetgpt/tensor"
)

// AdamW keeps first and second moment estimates per parameter and applies
// decoupled weight decay. Parameter tensors are disjoint, so the update runs
// one goroutine per tensor.
type AdamW struct {
	h *HyperParameters

	m [][]float64
	v [][]float64
	t int
}

// NewAdamW returns an optimizer with zeroed moments for the parameter list.
func NewAdamW(h *HyperParameters, params []*tensor.Tensor) *AdamW {
	o := &AdamW{h: h}
	for _, p := range params {
		o.m = append(o.m, make([]float64, p.Size()))
		o.v = append(o.v, make([]float64, p.Size()))
	}
	return o
}

// Step applies one update at the given learning rate. params must be the
// slice NewAdamW saw, in the same order.
func (o *AdamW) Step(params []*tensor.Tensor, lr float64) {
	o.t++
	bc1 := 1 - math.Pow(o.h.Beta1, float64(o.t))
	bc2 := 1 - math.Pow(o.h.Beta2, float64(o.t))

	parallel.ForEach(len(params), o.h.Threads, func(pi int) {
		p := params[pi]
		m, v := o.m[pi], o.v[pi]
		for i, g := range p.Grad {
			m[i] = o.h.Beta1*m[i] + (1-o.h.Beta1)*g
			v[i] = o.h.Beta2*v[i] + (1-o.h.Beta2)*g*g
			mhat := m[i] / bc1
			vhat := v[i] / bc2
			p.Data[i] -= lr * o.h.WeightDecay * p.Data[i]
			p.Data[i] -= lr * mhat / (math.Sqrt(vhat) + o.h.Eps)
		}
	})

	if o.h.l != nil {
		o.h.l.Println("step", o.t, "lr", lr)
	}
}
