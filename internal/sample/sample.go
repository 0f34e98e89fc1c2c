// Package sample implements the engine's sample library: individual WAV
// samples, the named packs that group them, and the manager that scans a
// directory of pack manifests at startup.
package sample

import "github.com/liveset-audio/dsp-engine/internal/audiobuf"

// Sample is an immutable, pre-decoded stereo waveform, shared read-only by
// every voice that plays it.
type Sample struct {
	Name  string
	Path  string
	Left  []float32
	Right []float32
}

// DurationSamples is the number of frames in the sample.
func (s *Sample) DurationSamples() int {
	return len(s.Left)
}

// DurationMs converts a frame count to milliseconds at the given sample rate.
func (s *Sample) DurationMs(n int, sampleRate int) float64 {
	return float64(n) / float64(sampleRate) * 1000.0
}

// CopyInto writes count frames starting at pos into dst's two channels,
// returning how many frames were actually available (fewer than count at
// the tail of the sample).
func (s *Sample) CopyInto(dst *audiobuf.Buffer, pos, count int) int {
	n := count
	if pos+n > len(s.Left) {
		n = len(s.Left) - pos
	}
	if n <= 0 {
		return 0
	}
	copy(dst.Channel(audiobuf.Left)[:n], s.Left[pos:pos+n])
	copy(dst.Channel(audiobuf.Right)[:n], s.Right[pos:pos+n])
	return n
}
