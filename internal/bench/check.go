package bench

import (
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/convolve/internal/conv"
	"github.com/born-ml/convolve/internal/parallel"
	"github.com/born-ml/convolve/internal/reference"
	"github.com/born-ml/convolve/internal/tensor"
)

// CheckImage is the 4×4 single-channel image used by SelfCheck.
var CheckImage = []float32{
	3, 5, 3, 3,
	5, 1, 4, 5,
	2, 5, 0, 1,
	3, 3, 2, 1,
}

// SelfCheck convolves CheckImage with a 3×3 identity filter under SAME
// padding using every strategy and compares each output with the reference
// operator. One line per strategy is written to w. Any mismatch is reported
// as ErrMismatch.
func SelfCheck(w io.Writer, tolerance float64) error {
	input, err := tensor.FromSlice(CheckImage, tensor.Shape{1, 4, 4, 1})
	if err != nil {
		return err
	}
	filter, err := tensor.Eye(3, 3).Reshape(tensor.Shape{3, 3, 1, 1})
	if err != nil {
		return err
	}

	want := reference.Conv2D(input, filter, reference.SamePads(3, 3), parallel.Sequential())

	var errs []error
	for _, s := range conv.Strategies {
		got, err := conv.Convolve(input, filter, conv.UnitStride, conv.Same, s)
		if err != nil {
			return fmt.Errorf("self-check %s: %w", s, err)
		}
		diff := MaxAbsDiff(got, want)
		status := "ok"
		if diff > tolerance {
			status = "FAIL"
			errs = append(errs, fmt.Errorf("%w: strategy %s, max diff %g", ErrMismatch, s, diff))
		}
		fmt.Fprintf(w, "%-8s %-4s max diff %g\n", s, status, diff)
	}
	return errors.Join(errs...)
}
