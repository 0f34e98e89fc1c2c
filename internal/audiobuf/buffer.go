// Package audiobuf implements the fixed-size stereo float block that flows
// through the render pipeline, grounded on vst3go's zero-alloc buffer
// utilities (pkg/dsp/buffer.go) and on the pan/gain semantics of the
// original C++ AudioBuffer.
package audiobuf

import "github.com/liveset-audio/dsp-engine/internal/dsp/pan"

// Channel selects a stereo channel.
type Channel int

const (
	Left Channel = iota
	Right
)

// Buffer is a fixed-size stereo block of float32 samples. It is never
// resized after construction: the render loop allocates one per block
// shape and reuses it, satisfying the no-allocation-on-the-audio-thread
// requirement.
type Buffer struct {
	left  []float32
	right []float32
}

// New allocates a Buffer of the given size (samples per channel).
func New(size int) *Buffer {
	return &Buffer{
		left:  make([]float32, size),
		right: make([]float32, size),
	}
}

// Size returns the number of samples per channel.
func (b *Buffer) Size() int {
	return len(b.left)
}

// Channel returns the backing slice for L or R. The caller may read or
// write in place; no copy is made.
func (b *Buffer) Channel(c Channel) []float32 {
	if c == Left {
		return b.left
	}
	return b.right
}

// Reset zero-fills both channels.
func (b *Buffer) Reset() {
	for i := range b.left {
		b.left[i] = 0
		b.right[i] = 0
	}
}

// ApplyGain multiplies both channels by g.
func (b *Buffer) ApplyGain(g float32) {
	for i := range b.left {
		b.left[i] *= g
		b.right[i] *= g
	}
}

// ApplyPan applies the constant-pan law for pan position p in [0,1]: see
// pan.Gains for the exact law.
func (b *Buffer) ApplyPan(p float32) {
	left, right := pan.Gains(p)
	if left == 1 && right == 1 {
		return
	}
	for i := range b.left {
		b.left[i] *= left
		b.right[i] *= right
	}
}

// AddFrom adds every sample of src into b, sample for sample. Used by the
// engine to accumulate per-track render buffers into the shared output
// block (Open Question (a)).
func (b *Buffer) AddFrom(src *Buffer) {
	n := b.Size()
	if src.Size() < n {
		n = src.Size()
	}
	for i := 0; i < n; i++ {
		b.left[i] += src.left[i]
		b.right[i] += src.right[i]
	}
}

// CopyFrom overwrites b's contents with src's, sample for sample.
func (b *Buffer) CopyFrom(src *Buffer) {
	copy(b.left, src.left)
	copy(b.right, src.right)
}
