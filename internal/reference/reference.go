// Package reference provides an independent 2D convolution used as a
// correctness oracle for the engine in internal/conv.
//
// It follows the usual framework conventions (channels-last input [N, H, W, C],
// filter [Kh, Kw, Cin, Cout], stride 1) but computes the result through a
// completely different path: the tensors are transposed to channels-first,
// lowered with im2col and multiplied as matrices. SAME padding is
// TensorFlow-style, so even kernels are padded asymmetrically (extra row and
// column at the bottom/right).
//
// Only tests and the benchmark harness call this package.
package reference

import (
	"fmt"

	"github.com/born-ml/convolve/internal/parallel"
	"github.com/born-ml/convolve/internal/tensor"
)

// Pads is the number of zeros added on each side of the spatial axes.
type Pads struct {
	Top, Bottom, Left, Right int
}

// ValidPads returns zero padding.
func ValidPads() Pads {
	return Pads{}
}

// SamePads returns TensorFlow SAME padding for a stride-1 kh×kw kernel:
// total padding is k-1 per axis, with the odd extra on the bottom/right.
func SamePads(kh, kw int) Pads {
	top, left := (kh-1)/2, (kw-1)/2
	return Pads{
		Top:    top,
		Bottom: kh - 1 - top,
		Left:   left,
		Right:  kw - 1 - left,
	}
}

// PadsFor maps a "VALID"/"SAME" literal to Pads.
func PadsFor(mode string, kh, kw int) (Pads, error) {
	switch mode {
	case "VALID":
		return ValidPads(), nil
	case "SAME":
		return SamePads(kh, kw), nil
	default:
		return Pads{}, fmt.Errorf("reference: unsupported padding %q", mode)
	}
}

// Conv2D performs a stride-1 2D convolution using the im2col algorithm.
//
// Input shape: [batch, height, width, in_channels]
// Filter shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// Algorithm: Im2col
//  1. Transpose input to [N, C_in, H, W] and filter to [C_out, C_in, K_h, K_w]
//  2. Transform input patches into columns (im2col)
//  3. Multiply [C_out, C_in*K_h*K_w] by the columns, one output channel per task
//  4. Scatter the [C_out, N*H_out*W_out] result into [N, H_out, W_out, C_out]
//
// Panics on malformed shapes.
func Conv2D(input, filter *tensor.Tensor, pads Pads, cfg parallel.Config) *tensor.Tensor {
	inputShape := input.Shape()
	filterShape := filter.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("reference conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(filterShape) != 4 {
		panic(fmt.Sprintf("reference conv2d: filter must be 4D [K_h,K_w,C_in,C_out], got %dD", len(filterShape)))
	}

	N, H, W, CIn := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	KH, KW, CInK, COut := filterShape[0], filterShape[1], filterShape[2], filterShape[3]

	if CIn != CInK {
		panic(fmt.Sprintf("reference conv2d: input channels %d != filter channels %d", CIn, CInK))
	}

	HOut := H + pads.Top + pads.Bottom - KH + 1
	WOut := W + pads.Left + pads.Right - KW + 1
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("reference conv2d: invalid output dimensions: out_h=%d, out_w=%d", HOut, WOut))
	}

	nchw := input.Transpose(0, 3, 1, 2)
	oihw := filter.Transpose(3, 2, 0, 1)

	colWidth := CIn * KH * KW
	colHeight := N * HOut * WOut
	colBuf := make([]float32, colHeight*colWidth)
	im2col(colBuf, nchw.Data(), N, CIn, H, W, KH, KW, HOut, WOut, pads)

	// result[c, j] = Σ_k kernel[c, k] * colBuf[j, k]
	// Columns are split across workers; each result cell has exactly one writer.
	kernelData := oihw.Data()
	result := make([]float32, COut*colHeight)
	parallel.ForChunks(colHeight, func(start, end int) {
		for c := 0; c < COut; c++ {
			kRow := kernelData[c*colWidth : (c+1)*colWidth]
			for j := start; j < end; j++ {
				col := colBuf[j*colWidth : (j+1)*colWidth]
				sum := float32(0.0)
				for k, kv := range kRow {
					sum += kv * col[k]
				}
				result[c*colHeight+j] = sum
			}
		}
	}, cfg)

	// Column j = (n*H_out + h)*W_out + w, so [N, H_out, W_out, C_out] index is j*C_out + c.
	output := tensor.Zeros(tensor.Shape{N, HOut, WOut, COut})
	outputData := output.Data()
	for c := 0; c < COut; c++ {
		for j := 0; j < colHeight; j++ {
			outputData[j*COut+c] = result[c*colHeight+j]
		}
	}
	return output
}

// im2col transforms a channels-first input into a column matrix.
//
// Input: [N, C, H, W]
// Output: colBuf [N * H_out * W_out, C * K_h * K_w]
//
// Each row of colBuf corresponds to one output position, each column to one
// kernel weight. Positions that fall in the padding read as zero.
func im2col(colBuf, inputData []float32, N, C, H, W, KH, KW, HOut, WOut int, pads Pads) {
	colWidth := C * KH * KW
	colIdx := 0

	for n := 0; n < N; n++ {
		for outH := 0; outH < HOut; outH++ {
			for outW := 0; outW < WOut; outW++ {
				hStart := outH - pads.Top
				wStart := outW - pads.Left
				bufIdx := colIdx * colWidth

				for c := 0; c < C; c++ {
					for kh := 0; kh < KH; kh++ {
						for kw := 0; kw < KW; kw++ {
							h := hStart + kh
							w := wStart + kw

							if h >= 0 && h < H && w >= 0 && w < W {
								colBuf[bufIdx] = inputData[n*C*H*W+c*H*W+h*W+w]
							} else {
								colBuf[bufIdx] = 0.0
							}
							bufIdx++
						}
					}
				}
				colIdx++
			}
		}
	}
}
