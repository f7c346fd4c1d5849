// Package learning implements the optimizer and learning-rate schedule.
package learning

import (
	"log"
	"os"

	"github.com/verseml/poetgpt/tensor"
)

// HyperParameters bundles everything the optimization stage is tuned by.
type HyperParameters struct {
	LR          float64 // peak learning rate
	WarmupSteps int     // linear warmup length
	MaxSteps    int     // total optimizer steps over all epochs

	Beta1       float64
	Beta2       float64
	Eps         float64
	WeightDecay float64

	Threads int // number of threads for the parameter update

	l *log.Logger
}

// NewHyperParameters returns the AdamW defaults around a peak rate and
// schedule bounds.
func NewHyperParameters(lr float64, warmupSteps, maxSteps int) *HyperParameters {
	return &HyperParameters{
		LR:          lr,
		WarmupSteps: warmupSteps,
		MaxSteps:    maxSteps,
		Beta1:       0.9,
		Beta2:       0.999,
		Eps:         1e-8,
		WeightDecay: 0.01,
		Threads:     tensor.Threads,
	}
}

// SetLogger directs optimizer diagnostics to a file.
func (h *HyperParameters) SetLogger(filename string) {
	outfile, _ := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	h.l = log.New(outfile, "", 0)
}
