// Package metrics implements the run-directory scalar store the trainer
// logs into.
package metrics

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Writer appends scalars to one file per tag under a run directory.
// A tag like "Loss/train_step" becomes <dir>/Loss/train_step.txt with one
// "step value" line per observation.
type Writer struct {
	dir     string
	files   map[string]*os.File
	loggers map[string]*log.Logger
}

// RunDir composes the conventional run directory name for a model type at a
// moment in time: runs/<model>_<YYYYMMDD_HHMMSS>.
func RunDir(root, model string, now time.Time) string {
	return filepath.Join(root, model+"_"+now.Format("20060102_150405"))
}

// NewWriter creates the run directory and an empty scalar store in it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create run directory")
	}
	return &Writer{
		dir:     dir,
		files:   make(map[string]*os.File),
		loggers: make(map[string]*log.Logger),
	}, nil
}

// Dir reports the run directory.
func (w *Writer) Dir() string {
	return w.dir
}

// AddScalar appends one observation to the tag's file.
func (w *Writer) AddScalar(tag string, step int, value float64) error {
	l, ok := w.loggers[tag]
	if !ok {
		name := filepath.Join(w.dir, filepath.FromSlash(tag)+".txt")
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return errors.Wrapf(err, "scalar %s", tag)
		}
		file, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrapf(err, "scalar %s", tag)
		}
		l = log.New(file, "", 0)
		w.files[tag] = file
		w.loggers[tag] = l
	}
	l.Println(step, value)
	return nil
}

// Close flushes and closes every tag file.
func (w *Writer) Close() error {
	var first error
	for _, file := range w.files {
		if err := file.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.files = make(map[string]*os.File)
	w.loggers = make(map[string]*log.Logger)
	return first
}
