package conv

import "github.com/born-ml/convolve/internal/tensor"

// Windows addresses the Kh×Kw×C patch of a padded [N, H, W, C] input that
// lines up with each output coordinate (n, oy, ox).
//
// Go slices cannot express overlapping strided views, so Windows offers two
// access modes instead:
//   - on-demand index arithmetic (Offset, At, Patch), no extra memory
//   - Materialize, which copies every window into one buffer of
//     N·Ho·Wo·Kh·Kw·C floats
//
// For stride 1, window (n, oy, ox) starts at padded[n, oy, ox, 0].
type Windows struct {
	data []float32

	batch, height, width, channels int
	kernelH, kernelW               int
	outH, outW                     int

	// Row-major strides of the padded input.
	strideN, strideY, strideX int
}

// NewWindows creates a window view of padded for a kh×kw kernel.
// The caller guarantees kh <= height and kw <= width.
func NewWindows(padded *tensor.Tensor, kh, kw int) *Windows {
	shape := padded.Shape()
	n, h, w, c := shape[axisBatch], shape[axisHeight], shape[axisWidth], shape[axisChannels]

	return &Windows{
		data:     padded.Data(),
		batch:    n,
		height:   h,
		width:    w,
		channels: c,
		kernelH:  kh,
		kernelW:  kw,
		outH:     h - kh + 1,
		outW:     w - kw + 1,
		strideN:  h * w * c,
		strideY:  w * c,
		strideX:  c,
	}
}

// Batch returns the number of images.
func (w *Windows) Batch() int { return w.batch }

// Channels returns the number of input channels.
func (w *Windows) Channels() int { return w.channels }

// KernelSize returns the window extent [Kh, Kw].
func (w *Windows) KernelSize() [2]int { return [2]int{w.kernelH, w.kernelW} }

// OutHeight returns the number of window rows.
func (w *Windows) OutHeight() int { return w.outH }

// OutWidth returns the number of window columns.
func (w *Windows) OutWidth() int { return w.outW }

// Offset returns the flat index into the padded input of element (ky, kx, ic)
// of the window at output coordinate (n, oy, ox).
func (w *Windows) Offset(n, oy, ox, ky, kx, ic int) int {
	return n*w.strideN + (oy+ky)*w.strideY + (ox+kx)*w.strideX + ic
}

// At returns element (ky, kx, ic) of the window at (n, oy, ox).
func (w *Windows) At(n, oy, ox, ky, kx, ic int) float32 {
	return w.data[w.Offset(n, oy, ox, ky, kx, ic)]
}

// PatchSize is the number of values in one single-channel window.
func (w *Windows) PatchSize() int {
	return w.kernelH * w.kernelW
}

// Patch copies channel ic of the window at (n, oy, ox) into dst in (ky, kx)
// row-major order and returns dst[:Kh*Kw]. dst must hold at least PatchSize values.
func (w *Windows) Patch(n, oy, ox, ic int, dst []float32) []float32 {
	dst = dst[:w.PatchSize()]
	i := 0
	for ky := 0; ky < w.kernelH; ky++ {
		off := w.Offset(n, oy, ox, ky, 0, ic)
		for kx := 0; kx < w.kernelW; kx++ {
			dst[i] = w.data[off]
			off += w.strideX
			i++
		}
	}
	return dst
}

// WindowSize is the number of values in one window across all channels.
func (w *Windows) WindowSize() int {
	return w.kernelH * w.kernelW * w.channels
}

// MaterializedSize is the number of float32 values Materialize allocates.
func (w *Windows) MaterializedSize() int {
	return w.batch * w.outH * w.outW * w.WindowSize()
}

// Materialize copies every window into a buffer laid out as
// [N, Ho, Wo, Kh, Kw, C]. Row r = (n*Ho + oy)*Wo + ox holds window (n, oy, ox)
// flattened in the same (ky, kx, ic) order as a [Kh, Kw, Cin, Cout] filter.
//
// Memory is proportional to N·Ho·Wo·Kh·Kw·C, which dominates for large
// kernels or images.
func (w *Windows) Materialize() []float32 {
	buf := make([]float32, w.MaterializedSize())

	// For a fixed ky, the kx and ic values of a window are contiguous in the
	// padded input, so each window is Kh copies of Kw·C floats.
	span := w.kernelW * w.channels
	dst := 0
	for n := 0; n < w.batch; n++ {
		for oy := 0; oy < w.outH; oy++ {
			for ox := 0; ox < w.outW; ox++ {
				for ky := 0; ky < w.kernelH; ky++ {
					src := w.Offset(n, oy, ox, ky, 0, 0)
					copy(buf[dst:dst+span], w.data[src:src+span])
					dst += span
				}
			}
		}
	}
	return buf
}
