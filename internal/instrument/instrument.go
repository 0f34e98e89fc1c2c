// Package instrument implements the sound sources a Track renders through:
// MonoSampler (sample playback) and TestTone (a synthetic oscillator used
// in place of a sample pack for stream fan-out scenarios).
package instrument

import (
	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/midi"
)

// Instrument renders MIDI-driven audio into a block. Render owns whatever
// internal voice state the instrument keeps; it is always called with the
// track's mutex already held.
type Instrument interface {
	HandleEvent(e midi.Event)
	Render(tick uint64, buf *audiobuf.Buffer)
}
