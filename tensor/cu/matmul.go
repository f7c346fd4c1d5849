//go:build cuda

// Package cu runs matrix products on the first CUDA device.
package cu

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"gorgonia.org/cu"

	"github.com/verseml/poetgpt/tensor/cu/kernel"
)

type state struct {
	ctx    cu.CUContext
	fn     cu.Function
	stream cu.Stream
}

var (
	mu   sync.Mutex
	st   *state
	ierr error
	once sync.Once
)

// Init readies device 0, the context and the matmul kernel. Safe to call
// more than once.
func Init() error {
	once.Do(func() {
		devices, err := cu.NumDevices()
		if err != nil {
			ierr = errors.Wrap(err, "cuda device count")
			return
		}
		if devices == 0 {
			ierr = errors.New("no cuda devices")
			return
		}
		device, err := cu.GetDevice(0)
		if err != nil {
			ierr = errors.Wrap(err, "cuda get device")
			return
		}
		ctx, err := device.MakeContext(cu.SchedAuto)
		if err != nil {
			ierr = errors.Wrap(err, "cuda make context")
			return
		}
		mod, err := cu.LoadData(kernel.PTXmatmulCUDA)
		if err != nil {
			ierr = errors.Wrap(err, "cuda load kernel")
			return
		}
		fn, err := mod.Function("matmul")
		if err != nil {
			ierr = errors.Wrap(err, "cuda kernel function")
			return
		}
		stream, err := cu.MakeStream(cu.DefaultStream)
		if err != nil {
			ierr = errors.Wrap(err, "cuda make stream")
			return
		}
		st = &state{ctx: ctx, fn: fn, stream: stream}
	})
	return ierr
}

// MatMul computes dst = a @ b for a (m,k) and b (k,n) on the device.
func MatMul(dst, a, b []float64, m, k, n int) error {
	if err := Init(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if err := cu.SetCurrentContext(st.ctx); err != nil {
		return errors.Wrap(err, "cuda set context")
	}

	elem := int64(unsafe.Sizeof(float64(0)))
	dA, err := cu.MemAlloc(int64(m*k) * elem)
	if err != nil {
		return errors.Wrap(err, "cuda alloc a")
	}
	defer cu.MemFree(dA)
	dB, err := cu.MemAlloc(int64(k*n) * elem)
	if err != nil {
		return errors.Wrap(err, "cuda alloc b")
	}
	defer cu.MemFree(dB)
	dC, err := cu.MemAlloc(int64(m*n) * elem)
	if err != nil {
		return errors.Wrap(err, "cuda alloc dst")
	}
	defer cu.MemFree(dC)

	if err := cu.MemcpyHtoD(dA, unsafe.Pointer(&a[0]), int64(m*k)*elem); err != nil {
		return errors.Wrap(err, "cuda copy a")
	}
	if err := cu.MemcpyHtoD(dB, unsafe.Pointer(&b[0]), int64(k*n)*elem); err != nil {
		return errors.Wrap(err, "cuda copy b")
	}

	m32, k32, n32 := int32(m), int32(k), int32(n)
	args := []unsafe.Pointer{
		unsafe.Pointer(&dC),
		unsafe.Pointer(&dA),
		unsafe.Pointer(&dB),
		unsafe.Pointer(&m32),
		unsafe.Pointer(&k32),
		unsafe.Pointer(&n32),
	}

	const block = 32
	gridX := (n + block - 1) / block
	gridY := (m + block - 1) / block
	err = st.fn.LaunchAndSync(gridX, gridY, 1, block, block, 1, 0, st.stream, args)
	if err != nil {
		return errors.Wrap(err, "cuda launch matmul")
	}

	if err := cu.MemcpyDtoH(unsafe.Pointer(&dst[0]), dC, int64(m*n)*elem); err != nil {
		return errors.Wrap(err, "cuda copy dst")
	}
	return nil
}
