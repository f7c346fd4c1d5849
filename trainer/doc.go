// Package trainer provides the high-level training orchestration: the
// epoch loop over the window loaders, the scheduled optimizer steps, and
// the train/validation loss bookkeeping written to the run directory.
package trainer
