package conv

import (
	"fmt"

	"github.com/born-ml/convolve/internal/tensor"
)

// Axis positions for channels-last inputs [N, H, W, C] and filters [Kh, Kw, Cin, Cout].
const (
	axisBatch    = 0
	axisHeight   = 1
	axisWidth    = 2
	axisChannels = 3

	axisKernelH = 0
	axisKernelW = 1
	axisInC     = 2
	axisOutC    = 3
)

// ValidateShapes checks that input and filter can be convolved with stride.
//
// Checks, in order:
//   - both shapes are 4D with positive dimensions (ErrInvalidShape)
//   - every stride component is 1 (ErrUnsupportedStride)
//   - filter input channels equal input channels (ErrChannelMismatch)
//
// It allocates nothing and must run before padding or windowing.
func ValidateShapes(input, filter tensor.Shape, stride Stride) error {
	if err := validateRank4(input, "input"); err != nil {
		return &ShapeError{Op: "validate", Input: input, Filter: filter, Detail: err.Error(), Err: ErrInvalidShape}
	}
	if err := validateRank4(filter, "filter"); err != nil {
		return &ShapeError{Op: "validate", Input: input, Filter: filter, Detail: err.Error(), Err: ErrInvalidShape}
	}

	if stride != UnitStride {
		return &ShapeError{
			Op:     "validate",
			Detail: fmt.Sprintf("got %v", stride),
			Err:    ErrUnsupportedStride,
		}
	}

	if input[axisChannels] != filter[axisInC] {
		return &ShapeError{
			Op:     "validate",
			Input:  input,
			Filter: filter,
			Detail: fmt.Sprintf("input has %d channels, filter expects %d", input[axisChannels], filter[axisInC]),
			Err:    ErrChannelMismatch,
		}
	}

	return nil
}

func validateRank4(s tensor.Shape, name string) error {
	if len(s) != 4 {
		return fmt.Errorf("%s is %dD", name, len(s))
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
