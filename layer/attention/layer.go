// Package attention implements causal multi-head self-attention.
package attention

import (
	"math"
	"math/rand"

	"github.com/verseml/poetgpt/layer/full"
	"github.com/verseml/poetgpt/parallel"
	"github.com/verseml/poetgpt/tensor"
)

// Layer projects the input to queries, keys and values, attends each position
// to itself and everything before it, and projects the result back.
// Sequences in a batch are independent, so the attention math runs batch
// parallel.
type Layer struct {
	Heads int
	Wq    *full.Layer
	Wk    *full.Layer
	Wv    *full.Layer
	Wo    *full.Layer

	q, k, v *tensor.Tensor // forward caches, (batch, seq, dim)
	att     [][][]float64  // per sequence, per head, seq*seq softmax rows
}

// New returns an attention layer for embedding width dim split across heads.
func New(rng *rand.Rand, dim, heads int) *Layer {
	if dim%heads != 0 {
		panic("attention: dim must divide evenly across heads")
	}
	return &Layer{
		Heads: heads,
		Wq:    full.New(rng, dim, dim, true),
		Wk:    full.New(rng, dim, dim, true),
		Wv:    full.New(rng, dim, dim, true),
		Wo:    full.New(rng, dim, dim, true),
	}
}

// Forward attends x of shape (batch, seq, dim) causally.
func (l *Layer) Forward(x *tensor.Tensor) *tensor.Tensor {
	B, T, C := x.Shape[0], x.Shape[1], x.Shape[2]
	hd := C / l.Heads
	scale := 1 / math.Sqrt(float64(hd))

	l.q = l.Wq.Forward(x)
	l.k = l.Wk.Forward(x)
	l.v = l.Wv.Forward(x)
	l.att = make([][][]float64, B)

	y := tensor.New(B, T, C)
	parallel.ForEach(B, tensor.Threads, func(b int) {
		l.att[b] = make([][]float64, l.Heads)
		for h := 0; h < l.Heads; h++ {
			att := make([]float64, T*T)
			for i := 0; i < T; i++ {
				qi := l.q.Data[(b*T+i)*C+h*hd : (b*T+i)*C+h*hd+hd]

				// causal logit row, tracking the max for stable softmax
				maxLogit := math.Inf(-1)
				for t := 0; t <= i; t++ {
					kt := l.k.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					var dot float64
					for j := 0; j < hd; j++ {
						dot += qi[j] * kt[j]
					}
					dot *= scale
					att[i*T+t] = dot
					if dot > maxLogit {
						maxLogit = dot
					}
				}

				var sum float64
				for t := 0; t <= i; t++ {
					e := math.Exp(att[i*T+t] - maxLogit)
					att[i*T+t] = e
					sum += e
				}
				for t := 0; t <= i; t++ {
					att[i*T+t] /= sum
				}

				yi := y.Data[(b*T+i)*C+h*hd : (b*T+i)*C+h*hd+hd]
				for t := 0; t <= i; t++ {
					vt := l.v.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					w := att[i*T+t]
					for j := 0; j < hd; j++ {
						yi[j] += w * vt[j]
					}
				}
			}
			l.att[b][h] = att
		}
	})

	return l.Wo.Forward(y)
}

// Backward chains through the output projection, the softmax attention and
// the three input projections, returning dx.
func (l *Layer) Backward(grad *tensor.Tensor) *tensor.Tensor {
	dy := l.Wo.Backward(grad)
	B, T, C := dy.Shape[0], dy.Shape[1], dy.Shape[2]
	hd := C / l.Heads
	scale := 1 / math.Sqrt(float64(hd))

	dq := tensor.New(B, T, C)
	dk := tensor.New(B, T, C)
	dv := tensor.New(B, T, C)

	parallel.ForEach(B, tensor.Threads, func(b int) {
		datt := make([]float64, T*T)
		for h := 0; h < l.Heads; h++ {
			att := l.att[b][h]
			for i := 0; i < T; i++ {
				dyi := dy.Data[(b*T+i)*C+h*hd : (b*T+i)*C+h*hd+hd]

				for t := 0; t <= i; t++ {
					vt := l.v.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					dvt := dv.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					var dot float64
					w := att[i*T+t]
					for j := 0; j < hd; j++ {
						dot += dyi[j] * vt[j]
						dvt[j] += w * dyi[j]
					}
					datt[i*T+t] = dot
				}

				// softmax backward over the causal row
				var rowDot float64
				for t := 0; t <= i; t++ {
					rowDot += datt[i*T+t] * att[i*T+t]
				}
				qi := l.q.Data[(b*T+i)*C+h*hd : (b*T+i)*C+h*hd+hd]
				dqi := dq.Data[(b*T+i)*C+h*hd : (b*T+i)*C+h*hd+hd]
				for t := 0; t <= i; t++ {
					dl := att[i*T+t] * (datt[i*T+t] - rowDot) * scale
					kt := l.k.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					dkt := dk.Data[(b*T+t)*C+h*hd : (b*T+t)*C+h*hd+hd]
					for j := 0; j < hd; j++ {
						dqi[j] += dl * kt[j]
						dkt[j] += dl * qi[j]
					}
				}
			}
		}
	})

	dx := l.Wq.Backward(dq)
	dxk := l.Wk.Backward(dk)
	dxv := l.Wv.Backward(dv)
	for i := range dx.Data {
		dx.Data[i] += dxk.Data[i] + dxv.Data[i]
	}
	return dx
}

// Params lists the trainables of all four projections.
func (l *Layer) Params() []*tensor.Tensor {
	params := append(l.Wq.Params(), l.Wk.Params()...)
	params = append(params, l.Wv.Params()...)
	return append(params, l.Wo.Params()...)
}
