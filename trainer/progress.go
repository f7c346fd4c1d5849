package trainer

import "fmt"

const progressBarWidth = 40

func progressBar(progress, width int) string {
	progressBar := ""
	for i := 0; i < progress; i++ {
		progressBar += "="
	}
	return progressBar
}

func emptySpace(space int) string {
	emptySpace := ""
	for i := 0; i < space; i++ {
		emptySpace += " "
	}
	return emptySpace
}

func (t *Trainer) printProgress(epoch, step, perEpoch int, loss float64) {
	progress := (step + 1) * progressBarWidth / perEpoch
	fmt.Printf("\rTraining epoch %d [%s%s] %d/%d | train_loss %.4f",
		epoch+1, progressBar(progress, progressBarWidth),
		emptySpace(progressBarWidth-progress), step+1, perEpoch, loss)
}
