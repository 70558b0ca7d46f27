package conv

import (
	"fmt"
	"strings"
)

// Padding selects how the input is zero-padded before windowing.
// The two valid values are spelled exactly "VALID" and "SAME".
type Padding string

// Supported padding modes.
const (
	Valid Padding = "VALID" // No padding; output shrinks by kernel_dim-1.
	Same  Padding = "SAME"  // Symmetric padding of (kernel_dim-1)/2 per side.
)

// ParsePadding converts a literal into a Padding. Matching is case-sensitive.
func ParsePadding(s string) (Padding, error) {
	switch p := Padding(s); p {
	case Valid, Same:
		return p, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPaddingMode, s)
	}
}

// Stride holds one step per input axis: batch, height, width, channels.
type Stride [4]int

// UnitStride is the only stride the engine accepts.
var UnitStride = Stride{1, 1, 1, 1}

// Strategy selects the algorithm that computes a convolution. Every strategy
// produces the same result up to floating-point summation order.
type Strategy int

// Available strategies.
const (
	Naive   Strategy = iota // Seven nested loops, scalar accumulation.
	Partial                 // Per-position dot product of window and filter slice.
	Full                    // Materialized windows and one contraction.
)

// DefaultStrategy is used for production workloads.
const DefaultStrategy = Full

// Strategies lists every strategy, fastest last.
var Strategies = []Strategy{Naive, Partial, Full}

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case Naive:
		return "naive"
	case Partial:
		return "partial"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a name produced by String back into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive":
		return Naive, nil
	case "partial":
		return Partial, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}
