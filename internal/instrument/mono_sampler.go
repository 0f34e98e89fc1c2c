package instrument

import (
	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/midi"
	"github.com/liveset-audio/dsp-engine/internal/sample"
)

// VoiceState is a voice's position in its envelope.
type VoiceState int

const (
	VoiceAttack VoiceState = iota
	VoiceSustain
	VoiceRelease
	VoiceDone
)

// releaseFadeSamples is the linear fade length applied on NOTE_OFF, per
// Open Question resolution (c): an immediate release with a short fade
// rather than a full ADSR.
const releaseFadeSamples = 256

type voice struct {
	sampleRef *sample.Sample
	position  int
	gain      float32
	note      uint8
	state     VoiceState
	releaseAt int // sample countdown remaining in the release fade
}

// MonoSampler plays back samples from a single pack, triggered by NOTE_ON
// looking up the MIDI note in that pack's note map.
type MonoSampler struct {
	pack   *sample.Pack
	voices []*voice
}

// NewMonoSampler constructs a sampler with no pack assigned; SetPack must be
// called before NOTE_ON events can trigger anything.
func NewMonoSampler() *MonoSampler {
	return &MonoSampler{}
}

// SetPack assigns the sample pack voices are triggered from.
func (m *MonoSampler) SetPack(pack *sample.Pack) {
	m.pack = pack
}

func (m *MonoSampler) HandleEvent(e midi.Event) {
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		m.noteOn(ev.NoteNumber, ev.Velocity)
	case midi.NoteOffEvent:
		m.noteOff(ev.NoteNumber)
	}
}

func (m *MonoSampler) noteOn(note, velocity uint8) {
	if m.pack == nil {
		return
	}
	s, ok := m.pack.GetByNote(int(note))
	if !ok {
		return
	}
	m.voices = append(m.voices, &voice{
		sampleRef: s,
		position:  0,
		gain:      float32(velocity) / 127.0,
		note:      note,
		state:     VoiceAttack,
	})
}

func (m *MonoSampler) noteOff(note uint8) {
	for _, v := range m.voices {
		if v.note == note && v.state != VoiceDone {
			v.state = VoiceRelease
			v.releaseAt = releaseFadeSamples
		}
	}
}

// Render mixes every active voice into buf and evicts voices that finished
// during this block.
func (m *MonoSampler) Render(tick uint64, buf *audiobuf.Buffer) {
	left := buf.Channel(audiobuf.Left)
	right := buf.Channel(audiobuf.Right)
	n := buf.Size()

	for _, v := range m.voices {
		if v.state == VoiceDone {
			continue
		}

		remaining := v.sampleRef.DurationSamples() - v.position
		count := n
		if remaining < count {
			count = remaining
		}

		for i := 0; i < count; i++ {
			gain := v.gain
			if v.state == VoiceRelease {
				if v.releaseAt <= 0 {
					v.state = VoiceDone
					break
				}
				gain *= float32(v.releaseAt) / float32(releaseFadeSamples)
				v.releaseAt--
			} else if v.state == VoiceAttack {
				v.state = VoiceSustain
			}

			left[i] += v.sampleRef.Left[v.position] * gain
			right[i] += v.sampleRef.Right[v.position] * gain
			v.position++
		}

		if v.position >= v.sampleRef.DurationSamples() {
			v.state = VoiceDone
		}
	}

	m.evictDone()
}

func (m *MonoSampler) evictDone() {
	alive := m.voices[:0]
	for _, v := range m.voices {
		if v.state != VoiceDone {
			alive = append(alive, v)
		}
	}
	m.voices = alive
}

// ActiveVoices reports the number of voices not yet evicted, for tests and
// diagnostics.
func (m *MonoSampler) ActiveVoices() int {
	return len(m.voices)
}
