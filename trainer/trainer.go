package trainer

import (
	"fmt"

	"github.com/verseml/poetgpt/datasets"
	"github.com/verseml/poetgpt/learning"
	"github.com/verseml/poetgpt/metrics"
	"github.com/verseml/poetgpt/net/transformer"
)

// Trainer runs the supervised loop: forward, backward, optimizer step at the
// scheduled learning rate, and the epoch-level train/validation bookkeeping.
type Trainer struct {
	Model   *transformer.Model
	H       *learning.HyperParameters
	Train   *datasets.Loader
	Val     *datasets.Loader
	Metrics *metrics.Writer
	Epochs  int

	// DisableProgressBar turns the in-place terminal bar off.
	DisableProgressBar bool
}

// Run trains for the configured number of epochs and returns the last
// validation loss.
func (t *Trainer) Run() (float64, error) {
	opt := learning.NewAdamW(t.H, t.Model.Params())
	perEpoch := t.Train.Batches()
	var valLoss float64

	for epoch := 0; epoch < t.Epochs; epoch++ {
		t.Train.Shuffle()

		var trainLoss float64
		for step := 0; step < perEpoch; step++ {
			batch := t.Train.Batch(step)

			// Forward pass
			_, loss := t.Model.Forward(batch.Inputs, batch.Targets)

			// Backward pass
			t.Model.Backward()
			curr := epoch*perEpoch + step
			lr := t.H.LearningRate(curr)
			opt.Step(t.Model.Params(), lr)
			t.Model.ZeroGrads()

			// Log training metrics
			trainLoss += loss
			if t.Metrics != nil {
				if err := t.Metrics.AddScalar("Loss/train_step", curr, loss); err != nil {
					return valLoss, err
				}
				if err := t.Metrics.AddScalar("Learning_rate", curr, lr); err != nil {
					return valLoss, err
				}
			}
			if !t.DisableProgressBar {
				t.printProgress(epoch, step, perEpoch, loss)
			}
		}

		// Log average training loss for the epoch
		avgTrainLoss := trainLoss / float64(perEpoch)
		if t.Metrics != nil {
			if err := t.Metrics.AddScalar("Loss/train_epoch", epoch, avgTrainLoss); err != nil {
				return valLoss, err
			}
		}

		// Validation
		valLoss = t.Evaluate()
		if t.Metrics != nil {
			if err := t.Metrics.AddScalar("Loss/validation", epoch, valLoss); err != nil {
				return valLoss, err
			}
		}
		if !t.DisableProgressBar {
			fmt.Println()
		}
		fmt.Println("Validation loss:", valLoss)
	}

	return valLoss, nil
}
