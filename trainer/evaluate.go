package trainer

// Evaluate runs one validation pass and returns the mean batch loss.
// No gradients are produced, so the model is untouched.
func (t *Trainer) Evaluate() float64 {
	if t.Val == nil || t.Val.Batches() == 0 {
		return 0
	}
	t.Val.Shuffle()
	var sum float64
	for i := 0; i < t.Val.Batches(); i++ {
		batch := t.Val.Batch(i)
		_, loss := t.Model.Forward(batch.Inputs, batch.Targets)
		sum += loss
	}
	return sum / float64(t.Val.Batches())
}
