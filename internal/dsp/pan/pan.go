// Package pan provides stereo panning and stereo-field diagnostics.
package pan

// Gains returns the per-channel multiplier for a pan position p in [0,1]:
// 0 is hard left, 0.5 is center, 1 is hard right. This is a constant-pan law
// (not equal-power) chosen deliberately for simplicity: for p>0.5 the left
// channel is attenuated by 2*(1-p); for p<0.5 the right channel is
// attenuated by 2*p; at p=0.5 neither channel is touched.
func Gains(p float32) (left, right float32) {
	left, right = 1.0, 1.0
	switch {
	case p > 0.5:
		left = 2 * (1 - p)
	case p < 0.5:
		right = 2 * p
	}
	return left, right
}

// Width measures the mid/side stereo width of a signal, 0 = mono, 1 = the
// signal's natural width. A diagnostic helper: neither the render path nor
// the engine's stats log calls it.
func Width(left, right []float32) float32 {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if n == 0 {
		return 0
	}

	var midEnergy, sideEnergy float64
	for i := 0; i < n; i++ {
		mid := (left[i] + right[i]) * 0.5
		side := (left[i] - right[i]) * 0.5
		midEnergy += float64(mid * mid)
		sideEnergy += float64(side * side)
	}
	if midEnergy+sideEnergy == 0 {
		return 0
	}
	return float32(sideEnergy / (midEnergy + sideEnergy))
}

// Balance measures the left/right energy balance of a signal: -1 = all
// energy in the left channel, 0 = balanced, 1 = all energy in the right
// channel. A diagnostic helper: neither the render path nor the engine's
// stats log calls it.
func Balance(left, right []float32) float32 {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	var leftEnergy, rightEnergy float64
	for i := 0; i < n; i++ {
		leftEnergy += float64(left[i] * left[i])
		rightEnergy += float64(right[i] * right[i])
	}
	total := leftEnergy + rightEnergy
	if total == 0 {
		return 0
	}
	return float32((rightEnergy - leftEnergy) / total)
}
