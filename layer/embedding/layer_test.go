package embedding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/verseml/poetgpt/tensor"
)

// lookup test
func TestForward(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	l := New(rng, 5, 3)
	out := l.Forward([][]int{{0, 4}, {2, 2}})
	if out.Shape[0] != 2 || out.Shape[1] != 2 || out.Shape[2] != 3 {
		t.Fatalf("output shape: %v", out.Shape)
	}
	for j := 0; j < 3; j++ {
		if out.Data[j] != l.W.Data[j] {
			t.Errorf("row 0 mismatch at %d", j)
		}
		if out.Data[3+j] != l.W.Data[4*3+j] {
			t.Errorf("row 4 mismatch at %d", j)
		}
	}
}

// repeated ids accumulate gradient test
func TestBackward(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	l := New(rng, 4, 2)
	out := l.Forward([][]int{{1, 1, 3}})
	grad := tensor.New(out.Shape...)
	for i := range grad.Data {
		grad.Data[i] = float64(i + 1)
	}
	l.Backward(grad)

	// id 1 occurs twice: grads (1,2) and (3,4) sum to (4,6)
	if math.Abs(l.W.Grad[2]-4) > 1e-12 || math.Abs(l.W.Grad[3]-6) > 1e-12 {
		t.Errorf("id 1 grad: %v %v, want 4 6", l.W.Grad[2], l.W.Grad[3])
	}
	// id 3 occurs once: grad (5,6)
	if math.Abs(l.W.Grad[6]-5) > 1e-12 || math.Abs(l.W.Grad[7]-6) > 1e-12 {
		t.Errorf("id 3 grad: %v %v, want 5 6", l.W.Grad[6], l.W.Grad[7])
	}
	// untouched rows stay zero
	if l.W.Grad[0] != 0 || l.W.Grad[4] != 0 {
		t.Errorf("untouched rows must keep zero grads")
	}
}
