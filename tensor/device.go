package tensor

import "github.com/pkg/errors"

var useCUDA bool

// SetDevice selects the compute device for matrix products. "cpu" is always
// available; "cuda" needs a device and a binary built with the cuda tag.
func SetDevice(name string) error {
	switch name {
	case "cpu", "":
		useCUDA = false
		return nil
	case "cuda":
		if err := cudaInit(); err != nil {
			return errors.Wrap(err, "device cuda")
		}
		useCUDA = true
		return nil
	}
	return errors.Errorf("device %q not supported", name)
}
