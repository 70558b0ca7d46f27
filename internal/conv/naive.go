package conv

import "github.com/born-ml/convolve/internal/tensor"

// convNaive accumulates every scalar product directly into its output cell.
//
// Loop order: image, input channel, output channel, output row, output
// column, kernel row, kernel column.
// Cost: O(N · Cin · Cout · Ho · Wo · Kh · Kw), usable only for small inputs.
func convNaive(w *Windows, filter, out *tensor.Tensor) {
	filterData := filter.Data()
	outData := out.Data()

	N := w.Batch()
	CIn := w.Channels()
	COut := filter.Shape()[axisOutC]
	HOut, WOut := w.OutHeight(), w.OutWidth()
	KH, KW := w.kernelH, w.kernelW

	for n := 0; n < N; n++ {
		for ic := 0; ic < CIn; ic++ {
			for oc := 0; oc < COut; oc++ {
				for oy := 0; oy < HOut; oy++ {
					for ox := 0; ox < WOut; ox++ {
						outIdx := ((n*HOut+oy)*WOut+ox)*COut + oc
						for ky := 0; ky < KH; ky++ {
							for kx := 0; kx < KW; kx++ {
								filterIdx := ((ky*KW+kx)*CIn+ic)*COut + oc
								outData[outIdx] += w.At(n, oy, ox, ky, kx, ic) * filterData[filterIdx]
							}
						}
					}
				}
			}
		}
	}
}
