package mix

import (
	"math"
	"testing"
)

func TestSum(t *testing.T) {
	buffers := [][]float32{
		{1.0, 2.0, 3.0, 4.0},
		{0.5, 0.5, 0.5, 0.5},
		{-0.5, -0.5, -0.5, -0.5},
	}
	dst := make([]float32, 4)
	expected := []float32{1.0, 2.0, 3.0, 4.0}

	Sum(buffers, dst)

	for i, v := range dst {
		if math.Abs(float64(v-expected[i])) > 0.001 {
			t.Errorf("Sum: dst[%d] = %f, want %f", i, v, expected[i])
		}
	}
}

func TestSumClearsDestination(t *testing.T) {
	dst := []float32{9, 9, 9}
	Sum(nil, dst)
	for i, v := range dst {
		if v != 0 {
			t.Errorf("Sum with no buffers: dst[%d] = %f, want 0", i, v)
		}
	}
}

func TestSumShorterBuffer(t *testing.T) {
	buffers := [][]float32{
		{1.0, 1.0},
		{1.0, 1.0, 1.0, 1.0},
	}
	dst := make([]float32, 4)
	Sum(buffers, dst)
	expected := []float32{2.0, 2.0, 1.0, 1.0}
	for i, v := range dst {
		if v != expected[i] {
			t.Errorf("Sum: dst[%d] = %f, want %f", i, v, expected[i])
		}
	}
}

func BenchmarkSum(b *testing.B) {
	buffers := [][]float32{make([]float32, 1024), make([]float32, 1024), make([]float32, 1024)}
	dst := make([]float32, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum(buffers, dst)
	}
}
