//go:build cuda

package tensor

import "github.com/verseml/poetgpt/tensor/cu"

func cudaInit() error {
	return cu.Init()
}

func cudaMatMul(dst, a, b []float64, m, k, n int) error {
	return cu.MatMul(dst, a, b, m, k, n)
}
