package conv

import (
	"errors"
	"fmt"

	"github.com/born-ml/convolve/internal/tensor"
)

// Common errors. All of them are deterministic and returned before any
// output is allocated.
var (
	ErrChannelMismatch    = errors.New("filter input channels do not match input channels")
	ErrUnsupportedStride  = errors.New("only a stride of [1, 1, 1, 1] is supported")
	ErrInvalidPaddingMode = errors.New("padding must be VALID or SAME")
	ErrInvalidShape       = errors.New("tensor must be 4D with positive dimensions")
	ErrKernelTooLarge     = errors.New("kernel is larger than the padded input")
	ErrUnknownStrategy    = errors.New("unknown convolution strategy")
)

// ShapeError provides detailed information about a rejected convolution call.
// It wraps one of the sentinel errors above, so errors.Is works on it.
type ShapeError struct {
	Op     string       // Validation step that failed (e.g., "validate", "pad")
	Input  tensor.Shape // Input shape, if known
	Filter tensor.Shape // Filter shape, if known
	Detail string       // Additional details
	Err    error        // Underlying sentinel
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("conv2d %s: %v", e.Op, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Input != nil || e.Filter != nil {
		msg += fmt.Sprintf(" (input %v, filter %v)", e.Input, e.Filter)
	}
	return msg
}

// Unwrap returns the sentinel error.
func (e *ShapeError) Unwrap() error {
	return e.Err
}
