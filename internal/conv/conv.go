// Package conv implements a batched, channels-last 2D convolution
// (cross-correlation, no kernel flip) with stride 1 and three interchangeable
// strategies.
//
// Pipeline:
//
//	ValidateShapes -> ComputePadding/PadInput -> NewWindows -> strategy -> output
//
// Input:  [N, H, W, Cin]
// Filter: [Kh, Kw, Cin, Cout]
// Output: [N, Ho, Wo, Cout]
//
// For every output coordinate:
//
//	out[n, oy, ox, oc] = Σ_{ic, ky, kx} padded[n, oy+ky, ox+kx, ic] * filter[ky, kx, ic, oc]
//
// The engine is single-threaded, synchronous and keeps no state between calls.
package conv

import (
	"fmt"

	"github.com/born-ml/convolve/internal/tensor"
)

// strategyFunc fills a zeroed out tensor from the windows of the padded input.
// Strategies do not validate: shapes are checked once by Convolve.
type strategyFunc func(w *Windows, filter, out *tensor.Tensor)

var strategies = map[Strategy]strategyFunc{
	Naive:   convNaive,
	Partial: convPartial,
	Full:    convFull,
}

// Convolve computes the stride-1 2D convolution of input with filter.
//
// input is [N, H, W, Cin] and filter is [Kh, Kw, Cin, Cout]. stride must be
// UnitStride and padding one of Valid or Same. strategy picks the algorithm;
// it does not change the result beyond floating-point summation order.
//
// The returned tensor is newly allocated and shares no storage with input or
// filter. On error nothing is allocated and no computation is performed.
func Convolve(input, filter *tensor.Tensor, stride Stride, padding Padding, strategy Strategy) (*tensor.Tensor, error) {
	run, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("conv2d: %w: %v", ErrUnknownStrategy, strategy)
	}

	inputShape := input.Shape()
	filterShape := filter.Shape()

	if err := ValidateShapes(inputShape, filterShape, stride); err != nil {
		return nil, err
	}

	pad, err := ComputePadding(padding, filterShape[axisKernelH], filterShape[axisKernelW])
	if err != nil {
		return nil, err
	}

	outShape, err := OutputShape(inputShape, filterShape, pad)
	if err != nil {
		return nil, err
	}

	padded := PadInput(input, pad)
	windows := NewWindows(padded, filterShape[axisKernelH], filterShape[axisKernelW])

	out := newOutput(outShape)
	run(windows, filter, out)
	return out, nil
}

// newOutput allocates the zero-initialized result tensor that a strategy
// accumulates into.
func newOutput(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}
