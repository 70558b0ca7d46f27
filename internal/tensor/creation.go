package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
// Panics on an invalid shape.
//
// Example:
//
//	t := tensor.Zeros(Shape{1, 28, 28, 3})
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Eye creates an n×m matrix with ones on the main diagonal.
func Eye(n, m int) *Tensor {
	t := Zeros(Shape{n, m})
	for i := 0; i < n && i < m; i++ {
		t.data[i*m+i] = 1
	}
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
func Rand(shape Shape, rng *rand.Rand) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = rng.Float32()
	}
	return t
}

// Randn creates a tensor with values from a normal distribution (mean=0, std=1).
// Uses Box-Muller transform for generating normal distribution.
// Note: Uses math/rand (not crypto/rand) - appropriate for ML/statistical purposes.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := Zeros(shape)
	data := t.data
	for i := 0; i < len(data); i += 2 {
		u1 := 1 - rng.Float64() // (0, 1], keeps Log finite
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = float32(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = float32(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t
}

// TruncatedNormal draws from N(0, stddev²) and redraws any sample further
// than two standard deviations from the mean.
func TruncatedNormal(shape Shape, stddev float64, rng *rand.Rand) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		v := rng.NormFloat64()
		for math.Abs(v) > 2 {
			v = rng.NormFloat64()
		}
		t.data[i] = float32(v * stddev)
	}
	return t
}
