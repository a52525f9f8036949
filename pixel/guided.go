/*
NAME
  guided.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pixel

// GuidedFilter refines input p using guide, with the standard
// four-box-filter formulation (spec §4.1, §4.3.2): an edge-preserving
// filter whose output is a local affine transform of the guide.
func GuidedFilter(guide, p []float32, w, h, radius int, eps float32) []float32 {
	meanI := BoxFilter1D(guide, w, h, radius)
	meanP := BoxFilter1D(p, w, h, radius)

	ip := mul(guide, p)
	ii := mul(guide, guide)

	corrIP := BoxFilter1D(ip, w, h, radius)
	corrII := BoxFilter1D(ii, w, h, radius)

	n := w * h
	a := make([]float32, n)
	b := make([]float32, n)
	for i := 0; i < n; i++ {
		covIP := corrIP[i] - meanI[i]*meanP[i]
		varI := corrII[i] - meanI[i]*meanI[i]
		a[i] = covIP / (varI + eps)
		b[i] = meanP[i] - a[i]*meanI[i]
	}

	meanA := BoxFilter1D(a, w, h, radius)
	meanB := BoxFilter1D(b, w, h, radius)

	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = meanA[i]*guide[i] + meanB[i]
	}
	return out
}

func mul(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}
