// Package datasets implements the window bookkeeping between the corpus and
// the training loop: the train/validation split and the epoch batch loaders.
package datasets

import "math/rand"

// Batch groups input windows with their label windows.
type Batch struct {
	Inputs  [][]int
	Targets [][]int
}

// Split partitions n window indexes into a train part and a validation part
// by ratio, after a seeded shuffle. The train part gets floor(n*ratio)
// windows.
func Split(n int, ratio float64, rng *rand.Rand) (train, val []int) {
	idx := rng.Perm(n)
	cut := int(float64(n) * ratio)
	if cut > n {
		cut = n
	}
	return idx[:cut], idx[cut:]
}

// Loader iterates a window subset in batches. Shuffle reorders the subset;
// the final batch may be short.
type Loader struct {
	inputs    [][]int
	labels    [][]int
	idx       []int
	batchSize int
	rng       *rand.Rand
}

// NewLoader returns a loader over the windows selected by idx.
func NewLoader(inputs, labels [][]int, idx []int, batchSize int, rng *rand.Rand) *Loader {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Loader{
		inputs:    inputs,
		labels:    labels,
		idx:       append([]int(nil), idx...),
		batchSize: batchSize,
		rng:       rng,
	}
}

// Batches reports the number of batches per epoch.
func (l *Loader) Batches() int {
	return (len(l.idx) + l.batchSize - 1) / l.batchSize
}

// Windows reports the number of windows.
func (l *Loader) Windows() int {
	return len(l.idx)
}

// Shuffle reorders the windows for a new epoch.
func (l *Loader) Shuffle() {
	l.rng.Shuffle(len(l.idx), func(i, j int) {
		l.idx[i], l.idx[j] = l.idx[j], l.idx[i]
	})
}

// Batch returns batch i of the current epoch order.
func (l *Loader) Batch(i int) Batch {
	start := i * l.batchSize
	end := start + l.batchSize
	if end > len(l.idx) {
		end = len(l.idx)
	}
	var b Batch
	for _, w := range l.idx[start:end] {
		b.Inputs = append(b.Inputs, l.inputs[w])
		b.Targets = append(b.Targets, l.labels[w])
	}
	return b
}
