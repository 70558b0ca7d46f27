// Package tensor provides the dense float32 tensors consumed and produced by
// the convolution engine.
package tensor

import "fmt"

// Tensor is a dense row-major float32 tensor.
//
// Tensors never alias each other unless created through Reshape, which
// returns a view over the same storage.
type Tensor struct {
	shape  Shape     // Tensor dimensions
	stride []int     // Memory strides (row-major)
	data   []float32 // Backing storage, len == shape.NumElements()
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float32, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor holding a copy of data laid out as shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, t.NumElements())
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the backing storage in row-major order.
// WARNING: Direct access to underlying memory. Writes are visible to every view.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Offset returns the flat index of the element at idx.
// Panics if the index rank does not match the tensor rank.
func (t *Tensor) Offset(idx ...int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index rank %d != tensor rank %d", len(idx), len(t.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d of shape %v", v, i, t.shape))
		}
		off += v * t.stride[i]
	}
	return off
}

// At returns the element at idx.
func (t *Tensor) At(idx ...int) float32 {
	return t.data[t.Offset(idx...)]
}

// Set stores v at idx.
func (t *Tensor) Set(v float32, idx ...int) {
	t.data[t.Offset(idx...)] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.data))
	copy(data, t.data)
	return &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		data:   data,
	}
}

// String returns a short description such as "Tensor(1, 4, 4, 1)".
func (t *Tensor) String() string {
	return "Tensor" + t.shape.String()
}
