package conv

import "github.com/born-ml/convolve/internal/tensor"

// convFull materializes every window of the batch and computes the whole
// output with a single contraction over (ky, kx, ic):
//
//	out[n, oy, ox, oc] = Σ windows[n, oy, ox, ky, kx, ic] * filter[ky, kx, ic, oc]
//
// Flattening (n, oy, ox) into rows and (ky, kx, ic) into K turns this into
// [N·Ho·Wo, K] × [K, Cout], where the filter is used in its own row-major
// layout and the output is written in its final [N, Ho, Wo, Cout] layout.
func convFull(w *Windows, filter, out *tensor.Tensor) {
	cols := w.Materialize()
	rows := w.Batch() * w.OutHeight() * w.OutWidth()
	contract(out.Data(), cols, filter.Data(), rows, w.WindowSize(), filter.Shape()[axisOutC])
}

// contract accumulates c[M, P] += a[M, K] @ b[K, P], all row-major.
//
// i-k-j order keeps the innermost loop streaming over contiguous rows of b and c.
func contract(c, a, b []float32, M, K, P int) {
	for i := 0; i < M; i++ {
		cRow := c[i*P : (i+1)*P]
		aRow := a[i*K : (i+1)*K]
		for k, aik := range aRow {
			bRow := b[k*P : (k+1)*P]
			for j, bkj := range bRow {
				cRow[j] += aik * bkj
			}
		}
	}
}
