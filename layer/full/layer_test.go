package full

import (
	"math"
	"math/rand"
	"testing"

	"github.com/verseml/poetgpt/tensor"
)

func coef(i int) float64 { return math.Sin(float64(i)) + 0.25 }

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

// gradient check test
func TestGradcheck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New(rng, 4, 3, true)
	x := tensor.Randn(rng, 1, 2, 4)

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

	numeric(t, "W", l.W.Data, l.W.Grad, loss)
	numeric(t, "B", l.B.Data, l.B.Grad, loss)
	numeric(t, "x", x.Data, dx.Data, loss)
}

// bias free variant test
func TestNoBias(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New(rng, 3, 2, false)
	if l.B != nil {
		t.Errorf("bias allocated for bias-free layer")
	}
	if len(l.Params()) != 1 {
		t.Errorf("params: got %d, want 1", len(l.Params()))
	}
	y := l.Forward(tensor.Randn(rng, 1, 4, 3))
	if y.Shape[0] != 4 || y.Shape[1] != 2 {
		t.Errorf("output shape: %v", y.Shape)
	}
}

// leading shape preserved test
func TestShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New(rng, 4, 6, true)
	y := l.Forward(tensor.Randn(rng, 1, 2, 3, 4))
	if len(y.Shape) != 3 || y.Shape[0] != 2 || y.Shape[1] != 3 || y.Shape[2] != 6 {
		t.Errorf("output shape: %v", y.Shape)
	}
}
