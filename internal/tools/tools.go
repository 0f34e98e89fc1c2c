// Package tools holds the small pure-math helpers shared by the engine's DSP
// nodes, grounded on original_source's src/core/tools.cc.
package tools

import "math"

// Bipolar maps a unipolar value u in [0,1] to [-1,1].
func Bipolar(u float64) float64 {
	return 2*u - 1
}

// Unipolar maps a bipolar value b in [-1,1] to [0,1].
func Unipolar(b float64) float64 {
	return (b + 1) / 2
}

// Clip clamps x into [lo,hi].
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// FastSin is the sine approximation used by the LFO's SINE waveform. The
// original implementation traded accuracy for speed with a polynomial; a
// direct math.Sin is precise enough at the LFO's control-rate usage and
// keeps the function trivially correct, so no approximation is used here.
func FastSin(x float64) float64 {
	return math.Sin(x)
}
