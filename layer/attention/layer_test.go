package attention

import (
	"math"
	"math/rand"
	"testing"

	"github.com/verseml/poetgpt/tensor"
)

func coef(i int) float64 { return math.Sin(float64(i)*0.7) + 0.3 }

func numeric(t *testing.T, name string, data, grad []float64, loss func() float64) {
	t.Helper()
	const h = 1e-6
	for i := range data {
		orig := data[i]
		data[i] = orig + h
		up := loss()
		data[i] = orig - h
		down := loss()
		data[i] = orig
		want := (up - down) / (2 * h)
		if math.Abs(grad[i]-want) > 1e-6+1e-4*math.Max(math.Abs(grad[i]), math.Abs(want)) {
			t.Errorf("%s grad %d: analytic %v numeric %v", name, i, grad[i], want)
		}
	}
}

// causality test: the output at position i must ignore positions after i
func TestCausal(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	l := New(rng, 8, 2)
	const B, T, C = 1, 4, 8

	x := tensor.Randn(rng, 1, B, T, C)
	base := l.Forward(x)
	first := append([]float64(nil), base.Data[:2*C]...)

	// perturb the last two positions
	for i := 2 * C; i < T*C; i++ {
		x.Data[i] += 10
	}
	again := l.Forward(x)
	for i := 0; i < 2*C; i++ {
		if math.Abs(again.Data[i]-first[i]) > 1e-9 {
			t.Errorf("future token leaked into position %d", i/C)
			break
		}
	}
}

// gradient check test
func TestGradcheck(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	l := New(rng, 4, 2)
	x := tensor.Randn(rng, 1, 2, 3, 4)

	loss := func() float64 {
		y := l.Forward(x)
		var s float64
		for i, v := range y.Data {
			s += v * coef(i)
		}
		return s
	}

	y := l.Forward(x)
	g := tensor.New(y.Shape...)
	for i := range g.Data {
		g.Data[i] = coef(i)
	}
	dx := l.Backward(g)

	numeric(t, "Wq", l.Wq.W.Data, l.Wq.W.Grad, loss)
	numeric(t, "Wk", l.Wk.W.Data, l.Wk.W.Grad, loss)
	numeric(t, "Wv", l.Wv.W.Data, l.Wv.W.Grad, loss)
	numeric(t, "Wo", l.Wo.W.Data, l.Wo.W.Grad, loss)
	numeric(t, "Wq bias", l.Wq.B.Data, l.Wq.B.Grad, loss)
	numeric(t, "Wo bias", l.Wo.B.Data, l.Wo.B.Grad, loss)
	numeric(t, "x", x.Data, dx.Data, loss)
}

// head divisibility test
func TestBadHeads(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("dim not divisible by heads must panic")
		}
	}()
	New(rand.New(rand.NewSource(5)), 6, 4)
}
