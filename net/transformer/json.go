package transformer

import (
	"compress/lzw"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteWeightsToFile writes model weights to an lzw compressed json file.
func (m *Model) WriteWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = m.WriteWeights(file)
	file.Close()
	return err
}

// WriteWeights writes model weights to a writer as one json array per
// parameter tensor, in Params order.
func (m *Model) WriteWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	enc := json.NewEncoder(lw)
	for _, p := range m.Params() {
		if err := enc.Encode(p.Data); err != nil {
			return err
		}
	}
	return lw.Close()
}

// ReadWeightsFromFile reads model weights from an lzw compressed json file.
// The model must have been built with the same config and vocabulary.
func (m *Model) ReadWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	err = m.ReadWeights(file)
	file.Close()
	return err
}

// ReadWeights reads model weights from a reader in Params order.
func (m *Model) ReadWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	dec := json.NewDecoder(lr)
	for i, p := range m.Params() {
		var data []float64
		if err := dec.Decode(&data); err != nil {
			return errors.Wrapf(err, "weights tensor %d", i)
		}
		if len(data) != len(p.Data) {
			return errors.Errorf("weights tensor %d: %d values for a %d tensor",
				i, len(data), len(p.Data))
		}
		copy(p.Data, data)
	}
	return nil
}
