package conv

import (
	"fmt"

	"github.com/born-ml/convolve/internal/tensor"
)

// PadAmount is the number of zero rows (Height) and columns (Width) added to
// each side of the input. Batch and channel axes are never padded.
type PadAmount struct {
	Height int
	Width  int
}

// ComputePadding returns the per-side padding for a kernel of kh×kw.
//
//	VALID: {0, 0}
//	SAME:  {(kh-1)/2, (kw-1)/2}
//
// SAME uses floor division, so even kernels lose one row/column of output.
func ComputePadding(mode Padding, kh, kw int) (PadAmount, error) {
	switch mode {
	case Valid:
		return PadAmount{}, nil
	case Same:
		return PadAmount{Height: (kh - 1) / 2, Width: (kw - 1) / 2}, nil
	default:
		return PadAmount{}, &ShapeError{
			Op:     "pad",
			Detail: fmt.Sprintf("got %q", string(mode)),
			Err:    ErrInvalidPaddingMode,
		}
	}
}

// PadInput returns input with pad zeros inserted symmetrically on the height
// and width axes. A zero pad returns input itself; the engine never writes to it.
func PadInput(input *tensor.Tensor, pad PadAmount) *tensor.Tensor {
	if pad == (PadAmount{}) {
		return input
	}

	shape := input.Shape()
	n, h, w, c := shape[axisBatch], shape[axisHeight], shape[axisWidth], shape[axisChannels]
	ph, pw := pad.Height, pad.Width
	paddedW := w + 2*pw

	padded := tensor.Zeros(tensor.Shape{n, h + 2*ph, paddedW, c})
	src := input.Data()
	dst := padded.Data()

	// Each input row (all W×C values) is contiguous in both tensors.
	rowLen := w * c
	for b := 0; b < n; b++ {
		for y := 0; y < h; y++ {
			srcOff := (b*h + y) * rowLen
			dstOff := ((b*(h+2*ph)+y+ph)*paddedW + pw) * c
			copy(dst[dstOff:dstOff+rowLen], src[srcOff:srcOff+rowLen])
		}
	}
	return padded
}

// OutputShape derives [N, Ho, Wo, Cout] for a stride-1 convolution:
//
//	Ho = H + 2*pad.Height - Kh + 1
//	Wo = W + 2*pad.Width  - Kw + 1
//
// Returns ErrKernelTooLarge if either spatial dimension would be < 1.
func OutputShape(input, filter tensor.Shape, pad PadAmount) (tensor.Shape, error) {
	outH := input[axisHeight] + 2*pad.Height - filter[axisKernelH] + 1
	outW := input[axisWidth] + 2*pad.Width - filter[axisKernelW] + 1

	if outH <= 0 || outW <= 0 {
		return nil, &ShapeError{
			Op:     "pad",
			Input:  input,
			Filter: filter,
			Detail: fmt.Sprintf("invalid output dimensions: out_h=%d, out_w=%d", outH, outW),
			Err:    ErrKernelTooLarge,
		}
	}

	return tensor.Shape{input[axisBatch], outH, outW, filter[axisOutC]}, nil
}
