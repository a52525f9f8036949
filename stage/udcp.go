/*
NAME
  udcp.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import (
	"sort"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// UDCP implements underwater dark-channel-prior dehazing (spec
// §4.3.2): dark channel estimation, atmospheric light, transmission
// map refined by a guided filter, and haze-free recovery.
type UDCP struct{}

// NewUDCP returns the UDCP stage.
func NewUDCP() *UDCP { return &UDCP{} }

// ID implements Stage.
func (s *UDCP) ID() params.StageID { return params.StageUDCP }

// Apply implements Stage.
func (s *UDCP) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("udcp_enabled") {
			return img.Clone(), nil
		}
		patch := int(store.Int("udcp_window_size"))
		omega := store.Float("udcp_omega")
		t0 := store.Float("udcp_t0")
		guidedRadius := int(store.Int("udcp_guided_radius"))
		guidedEps := store.Float("udcp_guided_eps")
		enhance := store.Float("udcp_enhance_contrast") - 1

		out := dehaze(img, patch, omega, t0, guidedRadius, guidedEps, enhance)
		return out, nil
	})
}

// darkChannel computes, per pixel, the minimum over a patch-sized
// window of the minimum of the three color channels (spec §4.3.2).
func darkChannel(r, g, b []float32, w, h, patch int) []float32 {
	n := len(r)
	minRGB := make([]float32, n)
	for i := 0; i < n; i++ {
		m := r[i]
		if g[i] < m {
			m = g[i]
		}
		if b[i] < m {
			m = b[i]
		}
		minRGB[i] = m
	}
	return pixel.Erode(minRGB, w, h, patch)
}

// atmosphericLight estimates the global airlight as the mean of the
// original pixels at the locations of the brightest 0.1% dark-channel
// values (spec §4.3.2).
func atmosphericLight(r, g, b, dark []float32) (ar, ag, ab float32) {
	n := len(dark)
	count := n / 1000
	if count < 1 {
		count = 1
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return dark[idx[i]] > dark[idx[j]] })

	var sr, sg, sb float64
	for k := 0; k < count; k++ {
		i := idx[k]
		sr += float64(r[i])
		sg += float64(g[i])
		sb += float64(b[i])
	}
	return float32(sr / float64(count)), float32(sg / float64(count)), float32(sb / float64(count))
}

// transmission computes the raw transmission map from the dark
// channel of the atmospheric-light-normalized image (spec §4.3.2).
func transmission(r, g, b []float32, ar, ag, ab float32, w, h, patch int, omega float32) []float32 {
	n := len(r)
	nr := make([]float32, n)
	ng := make([]float32, n)
	nb := make([]float32, n)
	for i := 0; i < n; i++ {
		nr[i] = pixel.Div(r[i], ar)
		ng[i] = pixel.Div(g[i], ag)
		nb[i] = pixel.Div(b[i], ab)
	}
	dark := darkChannel(nr, ng, nb, w, h, patch)
	t := make([]float32, n)
	for i := 0; i < n; i++ {
		t[i] = 1 - omega*dark[i]
	}
	return t
}

// recoverScene applies the haze model inverse: J = (I - A) / max(t, t0) + A.
func recoverScene(r, g, b, t []float32, ar, ag, ab, t0 float32) (or, og, ob []float32) {
	n := len(r)
	or = make([]float32, n)
	og = make([]float32, n)
	ob = make([]float32, n)
	for i := 0; i < n; i++ {
		tt := t[i]
		if tt < t0 {
			tt = t0
		}
		or[i] = pixel.Clamp01((r[i]-ar)/tt + ar)
		og[i] = pixel.Clamp01((g[i]-ag)/tt + ag)
		ob[i] = pixel.Clamp01((b[i]-ab)/tt + ab)
	}
	return
}

// dehaze implements the full UDCP pipeline: dark channel, atmospheric
// light, transmission refined with a guided filter against the R
// channel guide, haze-model inversion, then a contrast enhancement
// blend controlled by enhance (spec §4.3.2).
func dehaze(img *pixel.Image, patch int, omega, t0 float32, guidedRadius int, guidedEps, enhance float32) *pixel.Image {
	r, g, b := img.Planes()
	w, h := img.W, img.H

	dark := darkChannel(r, g, b, w, h, patch)
	ar, ag, ab := atmosphericLight(r, g, b, dark)

	rawT := transmission(r, g, b, ar, ag, ab, w, h, patch, omega)

	// Guide on channel 0 of I (the R plane under this module's
	// RGB-everywhere convention) per spec §4.3.2 step 4, not on luma.
	refinedT := pixel.GuidedFilter(r, rawT, w, h, guidedRadius, guidedEps)

	or, og, ob := recoverScene(r, g, b, refinedT, ar, ag, ab, t0)
	recovered := pixel.FromPlanes(w, h, or, og, ob)

	if enhance <= 0 {
		return recovered
	}
	return enhanceContrast(recovered, enhance)
}

// enhanceContrast blends the recovered image toward a per-channel
// contrast stretch about the channel mean, weighted by factor (spec
// §4.3.2's post-dehaze contrast enhancement step).
func enhanceContrast(img *pixel.Image, factor float32) *pixel.Image {
	r, g, b := img.Planes()
	n := len(r)

	stretch := func(c []float32) []float32 {
		var mean float64
		for _, v := range c {
			mean += float64(v)
		}
		mean /= float64(n)
		m := float32(mean)
		out := make([]float32, n)
		for i, v := range c {
			out[i] = pixel.Clamp01(m + (v-m)*(1+factor))
		}
		return out
	}

	rs := stretch(r)
	gs := stretch(g)
	bs := stretch(b)
	return pixel.FromPlanes(img.W, img.H, rs, gs, bs)
}
