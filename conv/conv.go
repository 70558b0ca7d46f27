// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package conv

import (
	"github.com/born-ml/convolve/internal/conv"
	"github.com/born-ml/convolve/tensor"
)

// Padding selects VALID or SAME zero padding.
type Padding = conv.Padding

// Padding modes.
const (
	Valid Padding = conv.Valid
	Same  Padding = conv.Same
)

// Stride holds one step per input axis. Only UnitStride is supported.
type Stride = conv.Stride

// UnitStride is [1, 1, 1, 1].
var UnitStride = conv.UnitStride

// Strategy selects the convolution algorithm.
type Strategy = conv.Strategy

// Strategies.
const (
	Naive           Strategy = conv.Naive
	Partial         Strategy = conv.Partial
	Full            Strategy = conv.Full
	DefaultStrategy Strategy = conv.DefaultStrategy
)

// ShapeError describes a rejected call and wraps one of the Err* values.
type ShapeError = conv.ShapeError

// Errors returned by Convolve. Use errors.Is to test for them.
var (
	ErrChannelMismatch    = conv.ErrChannelMismatch
	ErrUnsupportedStride  = conv.ErrUnsupportedStride
	ErrInvalidPaddingMode = conv.ErrInvalidPaddingMode
	ErrInvalidShape       = conv.ErrInvalidShape
	ErrKernelTooLarge     = conv.ErrKernelTooLarge
	ErrUnknownStrategy    = conv.ErrUnknownStrategy
)

// Convolve computes the stride-1 2D convolution of input [N, H, W, Cin] with
// filter [Kh, Kw, Cin, Cout] and returns a new [N, Ho, Wo, Cout] tensor.
func Convolve(input, filter *tensor.Tensor, stride Stride, padding Padding, strategy Strategy) (*tensor.Tensor, error) {
	return conv.Convolve(input, filter, stride, padding, strategy)
}

// ParsePadding converts "VALID" or "SAME" (case-sensitive) into a Padding.
func ParsePadding(s string) (Padding, error) {
	return conv.ParsePadding(s)
}

// ParseStrategy converts "naive", "partial" or "full" into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	return conv.ParseStrategy(s)
}
