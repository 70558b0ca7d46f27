package tensor

import "fmt"

// Reshape returns a view with a new shape over the same storage.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: invalid shape: %w", err)
	}
	if shape.NumElements() != t.NumElements() {
		return nil, fmt.Errorf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.shape, shape)
	}
	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   t.data,
	}, nil
}

// Transpose returns a copy with dimensions permuted by axes.
// With no axes, all dimensions are reversed.
func (t *Tensor) Transpose(axes ...int) *Tensor {
	ndim := len(t.shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(Shape, ndim)
	srcStrides := make([]int, ndim)
	for i, ax := range axes {
		newShape[i] = t.shape[ax]
		srcStrides[i] = t.stride[ax]
	}

	result := Zeros(newShape)
	gather(result, t, srcStrides, 0)
	return result
}

// Select returns a copy holding only position index of axis. The axis is kept
// with size 1 so the rank is unchanged.
func (t *Tensor) Select(axis, index int) *Tensor {
	if axis < 0 || axis >= len(t.shape) {
		panic(fmt.Sprintf("select: invalid axis %d for %dD tensor", axis, len(t.shape)))
	}
	if index < 0 || index >= t.shape[axis] {
		panic(fmt.Sprintf("select: index %d out of range for axis %d of shape %v", index, axis, t.shape))
	}

	newShape := t.shape.Clone()
	newShape[axis] = 1

	result := Zeros(newShape)
	gather(result, t, t.stride, index*t.stride[axis])
	return result
}

// gather fills dst in row-major order, reading src at base + Σ idx[i]*srcStrides[i].
func gather(dst, src *Tensor, srcStrides []int, base int) {
	shape := dst.shape
	idx := make([]int, len(shape))
	for o := range dst.data {
		off := base
		for i, v := range idx {
			off += v * srcStrides[i]
		}
		dst.data[o] = src.data[off]

		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
}
