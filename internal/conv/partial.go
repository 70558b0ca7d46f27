package conv

import "github.com/born-ml/convolve/internal/tensor"

// convPartial replaces the two kernel loops of convNaive with one dot product
// between a single-channel window and the matching filter slice.
//
// Images, channel pairs and output positions are still iterated explicitly.
func convPartial(w *Windows, filter, out *tensor.Tensor) {
	outData := out.Data()

	N := w.Batch()
	CIn := w.Channels()
	COut := filter.Shape()[axisOutC]
	HOut, WOut := w.OutHeight(), w.OutWidth()
	K := w.PatchSize()

	slices := packFilterSlices(filter)
	patch := make([]float32, K)

	for n := 0; n < N; n++ {
		for ic := 0; ic < CIn; ic++ {
			for oc := 0; oc < COut; oc++ {
				slice := slices[(ic*COut+oc)*K : (ic*COut+oc+1)*K]
				for oy := 0; oy < HOut; oy++ {
					for ox := 0; ox < WOut; ox++ {
						w.Patch(n, oy, ox, ic, patch)
						outData[((n*HOut+oy)*WOut+ox)*COut+oc] += dot(patch, slice)
					}
				}
			}
		}
	}
}

// packFilterSlices rearranges a [Kh, Kw, Cin, Cout] filter so that the Kh×Kw
// slice for each (ic, oc) pair is contiguous: [Cin, Cout, Kh, Kw].
func packFilterSlices(filter *tensor.Tensor) []float32 {
	shape := filter.Shape()
	KH, KW, CIn, COut := shape[axisKernelH], shape[axisKernelW], shape[axisInC], shape[axisOutC]
	src := filter.Data()
	K := KH * KW

	packed := make([]float32, len(src))
	for ky := 0; ky < KH; ky++ {
		for kx := 0; kx < KW; kx++ {
			for ic := 0; ic < CIn; ic++ {
				for oc := 0; oc < COut; oc++ {
					packed[(ic*COut+oc)*K+ky*KW+kx] = src[((ky*KW+kx)*CIn+ic)*COut+oc]
				}
			}
		}
	}
	return packed
}

// dot returns Σ a[i]*b[i] over len(a) elements using four independent
// accumulators. len(b) must be >= len(a).
func dot(a, b []float32) float32 {
	b = b[:len(a)]
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < len(a); i++ {
		s0 += a[i] * b[i]
	}
	return (s0 + s1) + (s2 + s3)
}
