package learning

import "math"

// LearningRate evaluates the warmup-then-cosine schedule at a step.
// It warms up linearly from 0 to LR over WarmupSteps, then decays along a
// half cosine from LR down to the floor min(LR/5, 1e-4) at MaxSteps.
func (h *HyperParameters) LearningRate(step int) float64 {
	minLR := math.Min(h.LR/5, 1e-4)

	// Warmup phase
	if step < h.WarmupSteps {
		return float64(step) / float64(max(1, h.WarmupSteps)) * h.LR
	}

	// Cosine decay phase
	progress := float64(step-h.WarmupSteps) / float64(max(1, h.MaxSteps-h.WarmupSteps))
	return minLR + 0.5*(h.LR-minLR)*(1+math.Cos(math.Pi*progress))
}
