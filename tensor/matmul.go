package tensor

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/mat"
)

// Threads is the goroutine limit for batch-parallel sections. It defaults to
// the logical core count reported by the CPU.
var Threads = logicalCores()

func logicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// MatMul computes a @ b into a new tensor. a is treated as (rows, cols),
// b must be 2D with b rows == a cols.
func MatMul(a, b *Tensor) *Tensor {
	return matmul(a, b, false, false)
}

// MatMulTA computes transpose(a) @ b.
func MatMulTA(a, b *Tensor) *Tensor {
	return matmul(a, b, true, false)
}

// MatMulTB computes a @ transpose(b).
func MatMulTB(a, b *Tensor) *Tensor {
	return matmul(a, b, false, true)
}

func matmul(a, b *Tensor, ta, tb bool) *Tensor {
	ar, ac := a.Rows(), a.Cols()
	br, bc := b.Rows(), b.Cols()

	m, k := ar, ac
	if ta {
		m, k = ac, ar
	}
	kb, n := br, bc
	if tb {
		kb, n = bc, br
	}
	if k != kb {
		panic("tensor: matmul inner dimensions do not match")
	}

	out := New(m, n)
	if useCUDA {
		left, right := a.Data, b.Data
		if ta {
			left = transpose(a.Data, ar, ac)
		}
		if tb {
			right = transpose(b.Data, br, bc)
		}
		if err := cudaMatMul(out.Data, left, right, m, k, n); err == nil {
			return out
		}
		// fall through to the CPU on a device error
	}

	var left, right mat.Matrix
	left = mat.NewDense(ar, ac, a.Data)
	if ta {
		left = left.T()
	}
	right = mat.NewDense(br, bc, b.Data)
	if tb {
		right = right.T()
	}
	dst := mat.NewDense(m, n, out.Data)
	dst.Mul(left, right)
	return out
}

func transpose(data []float64, r, c int) []float64 {
	out := make([]float64, len(data))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[j*r+i] = data[i*c+j]
		}
	}
	return out
}
