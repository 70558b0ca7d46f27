// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package conv provides a pure Go batched 2D convolution.
//
// # Overview
//
// Convolve computes a stride-1, channels-last cross-correlation (no kernel
// flip), the operation conventionally called conv2d in neural-network
// frameworks:
//
//	out[n, oy, ox, oc] = Σ_{ic, ky, kx} padded[n, oy+ky, ox+kx, ic] * filter[ky, kx, ic, oc]
//
// Three strategies compute the same result:
//   - Naive: explicit loops down to single kernel taps (test oracle)
//   - Partial: one dot product per output position and channel pair
//   - Full: materialized windows and a single contraction (default)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convolve/conv"
//	    "github.com/born-ml/convolve/tensor"
//	)
//
//	func main() {
//	    input := tensor.Zeros(tensor.Shape{8, 32, 32, 3})
//	    filter := tensor.Zeros(tensor.Shape{3, 3, 3, 16})
//
//	    out, err := conv.Convolve(input, filter, conv.UnitStride, conv.Same, conv.DefaultStrategy)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.Shape()) // (8, 32, 32, 16)
//	}
//
// # Padding
//
// "VALID" adds no padding. "SAME" adds (k-1)/2 zeros on both sides of each
// spatial axis, which preserves the spatial size for odd kernels. Even
// kernels lose one row and one column.
//
// # Memory
//
// The Full strategy copies every window into one buffer of
// N·Ho·Wo·Kh·Kw·Cin floats. Prefer Partial when that does not fit.
package conv
