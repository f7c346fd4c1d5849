package datasets

import (
	"math/rand"
	"testing"
)

// split partition test
func TestSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	train, val := Split(10, 0.9, rng)
	if len(train) != 9 || len(val) != 1 {
		t.Fatalf("split sizes: %d/%d, want 9/1", len(train), len(val))
	}
	seen := make(map[int]bool)
	for _, i := range append(append([]int(nil), train...), val...) {
		if seen[i] {
			t.Errorf("index %d assigned twice", i)
		}
		seen[i] = true
	}
	if len(seen) != 10 {
		t.Errorf("indexes lost in split: %d", len(seen))
	}
}

// batching and short final batch test
func TestLoader(t *testing.T) {
	var inputs, labels [][]int
	for i := 0; i < 7; i++ {
		inputs = append(inputs, []int{i})
		labels = append(labels, []int{i + 1})
	}
	idx := []int{0, 1, 2, 3, 4, 5, 6}
	l := NewLoader(inputs, labels, idx, 3, rand.New(rand.NewSource(10)))

	if l.Batches() != 3 {
		t.Fatalf("batches: got %d, want 3", l.Batches())
	}
	if l.Windows() != 7 {
		t.Fatalf("windows: got %d, want 7", l.Windows())
	}

	seen := make(map[int]bool)
	for i := 0; i < l.Batches(); i++ {
		b := l.Batch(i)
		if len(b.Inputs) != len(b.Targets) {
			t.Fatalf("batch %d: input/target count mismatch", i)
		}
		for j, in := range b.Inputs {
			if b.Targets[j][0] != in[0]+1 {
				t.Errorf("window %d paired with wrong labels", in[0])
			}
			seen[in[0]] = true
		}
	}
	if len(seen) != 7 {
		t.Errorf("windows seen in epoch: %d, want 7", len(seen))
	}
	if got := len(l.Batch(2).Inputs); got != 1 {
		t.Errorf("final short batch: got %d windows, want 1", got)
	}
}

// shuffle keeps pairing test
func TestShuffle(t *testing.T) {
	var inputs, labels [][]int
	for i := 0; i < 20; i++ {
		inputs = append(inputs, []int{i})
		labels = append(labels, []int{i + 1})
	}
	idx := make([]int, 20)
	for i := range idx {
		idx[i] = i
	}
	l := NewLoader(inputs, labels, idx, 4, rand.New(rand.NewSource(10)))

	l.Shuffle()
	seen := make(map[int]bool)
	for i := 0; i < l.Batches(); i++ {
		b := l.Batch(i)
		for j := range b.Inputs {
			if b.Targets[j][0] != b.Inputs[j][0]+1 {
				t.Errorf("pairing broken after shuffle")
			}
			seen[b.Inputs[j][0]] = true
		}
	}
	if len(seen) != 20 {
		t.Errorf("shuffle dropped windows: %d", len(seen))
	}
}

// loader does not alias caller index slice test
func TestLoaderCopiesIdx(t *testing.T) {
	inputs := [][]int{{0}, {1}}
	labels := [][]int{{1}, {2}}
	idx := []int{0, 1}
	l := NewLoader(inputs, labels, idx, 1, rand.New(rand.NewSource(10)))
	idx[0] = 1
	if got := l.Batch(0).Inputs[0][0]; got != 0 {
		t.Errorf("loader aliased caller slice: %d", got)
	}
}
