package instrument

import (
	"math"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/lfo"
	"github.com/liveset-audio/dsp-engine/internal/midi"
)

// TestTone is a synthetic monophonic sine source, supplemented from
// original_source's use of a synthetic signal in its audio-output tests.
// It needs no sample pack, so it exercises the stream fan-out path
// end-to-end without loading WAV files.
type TestTone struct {
	sampleRate float64
	frequency  float64
	phase      float64
	gain       float32
	held       bool

	vibrato *lfo.LFO
}

const (
	testToneVibratoHz    = 5.0
	testToneVibratoDepth = 0.02 // fractional frequency deviation
)

// NewTestTone constructs a TestTone at the given engine sample rate.
func NewTestTone(sampleRate float64) *TestTone {
	v := lfo.New(sampleRate, lfo.Sine, testToneVibratoHz)
	return &TestTone{sampleRate: sampleRate, vibrato: v}
}

func (t *TestTone) HandleEvent(e midi.Event) {
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		t.frequency = noteToFrequency(ev.NoteNumber)
		t.gain = float32(ev.Velocity) / 127.0
		t.held = true
	case midi.NoteOffEvent:
		t.held = false
	}
}

func (t *TestTone) Render(tick uint64, buf *audiobuf.Buffer) {
	if !t.held || t.frequency <= 0 {
		return
	}

	left := buf.Channel(audiobuf.Left)
	right := buf.Channel(audiobuf.Right)

	for i := range left {
		vibrato := t.vibrato.Render()
		freq := t.frequency * (1.0 + vibrato*testToneVibratoDepth)

		sample := float32(math.Sin(2*math.Pi*t.phase)) * t.gain
		left[i] += sample
		right[i] += sample

		t.phase += freq / t.sampleRate
		if t.phase >= 1.0 {
			t.phase -= 1.0
		}
	}
}

func noteToFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}
