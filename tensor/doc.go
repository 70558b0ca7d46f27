// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensors used by the convolution
// engine.
//
// # Overview
//
// A Tensor is a row-major float32 array with a Shape. The convolution API
// works on 4D channels-last tensors:
//   - input:  [batch, height, width, in_channels]
//   - filter: [kernel_height, kernel_width, in_channels, out_channels]
//   - output: [batch, out_height, out_width, out_channels]
//
// # Basic Usage
//
//	import "github.com/born-ml/convolve/tensor"
//
//	func main() {
//	    img, err := tensor.FromSlice(pixels, tensor.Shape{1, 28, 28, 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(img.At(0, 3, 4, 0))
//	}
//
// # Memory Management
//
// New, FromSlice and every creation helper allocate fresh storage.
// Reshape returns a view over the same storage; Transpose and Select copy.
package tensor
