// Package lfo implements the phase-accumulator low-frequency oscillator
// primitive, grounded on original_source's src/core/lfo.cc and on the
// struct shape of vst3go's pkg/dsp/modulation LFO.
package lfo

import "github.com/liveset-audio/dsp-engine/internal/tools"

// Type selects the LFO's waveform.
type Type int

const (
	Saw Type = iota
	Triangle
	Sine
)

// LFO is a phase-accumulator oscillator producing values in [-1,1].
type LFO struct {
	waveform   Type
	frequency  float64
	sampleRate float64
	phase      float64 // v in [0,1)
	inc        float64
}

// New creates an LFO running at the given sample rate.
func New(sampleRate float64, waveform Type, frequencyHz float64) *LFO {
	l := &LFO{waveform: waveform, sampleRate: sampleRate}
	l.SetFrequency(frequencyHz)
	return l
}

// SetFrequency updates the oscillation rate.
func (l *LFO) SetFrequency(hz float64) {
	l.frequency = hz
	l.inc = hz / l.sampleRate
}

// SetPhase sets the current phase directly, p in [0,1).
func (l *LFO) SetPhase(p float64) {
	l.phase = p - float64(int(p))
	if l.phase < 0 {
		l.phase++
	}
}

// Reset returns the LFO to phase 0.
func (l *LFO) Reset() {
	l.phase = 0
}

// Render produces the next sample in [-1,1] and advances the phase.
func (l *LFO) Render() float64 {
	v := tools.Bipolar(l.phase)

	var out float64
	switch l.waveform {
	case Saw:
		out = v
	case Triangle:
		out = 2*tools.Abs(v) - 1
	case Sine:
		out = tools.FastSin(v * 3.14159265358979323846)
	default:
		out = v
	}

	l.phase += l.inc
	if l.phase >= 1 {
		l.phase -= 1
	}

	return tools.Clip(out, -1, 1)
}
