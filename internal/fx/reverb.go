package fx

import (
	"math"
	"sync"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/param"
)

const engineSampleRate = 48000

// combTuningSamples and allpassTuningSamples are Freeverb's delay-line
// lengths, originally tuned at 44.1kHz, rescaled for engineSampleRate.
var combTuningSamples = [8]int{1214, 1293, 1389, 1475, 1547, 1622, 1694, 1760}
var allpassTuningSamples = [4]int{605, 480, 371, 244}

const reverbStereoSpreadSamples = 25

// combResonator is one feedback comb filter in the reverb's parallel bank.
// Its damping state is a one-pole lowpass on the feedback path, darkening
// the tail the longer it recirculates.
type combResonator struct {
	buffer   []float32
	writeAt  int
	feedback float32
	damp1    float32
	damp2    float32
	store    float32
}

func newCombResonator(delaySamples int) *combResonator {
	return &combResonator{buffer: make([]float32, delaySamples)}
}

func (c *combResonator) setFeedback(fb float64) {
	c.feedback = float32(fb)
}

func (c *combResonator) setDamping(damp1, damp2 float64) {
	c.damp1 = float32(damp1)
	c.damp2 = float32(damp2)
}

func (c *combResonator) process(in float32) float32 {
	out := c.buffer[c.writeAt]
	c.store = out*c.damp2 + c.store*c.damp1
	c.buffer[c.writeAt] = in + c.store*c.feedback
	c.writeAt++
	if c.writeAt >= len(c.buffer) {
		c.writeAt = 0
	}
	return out
}

func (c *combResonator) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.store = 0
}

// allpassDiffuser is one stage of the series chain that follows the comb
// bank, smearing its output into a denser tail without coloring it.
type allpassDiffuser struct {
	buffer   []float32
	writeAt  int
	feedback float32
}

func newAllpassDiffuser(delaySamples int) *allpassDiffuser {
	return &allpassDiffuser{buffer: make([]float32, delaySamples), feedback: 0.5}
}

func (a *allpassDiffuser) process(in float32) float32 {
	bufOut := a.buffer[a.writeAt]
	out := bufOut - in
	a.buffer[a.writeAt] = in + bufOut*a.feedback
	a.writeAt++
	if a.writeAt >= len(a.buffer) {
		a.writeAt = 0
	}
	return out
}

func (a *allpassDiffuser) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
}

// diffusionTank is the comb-bank-then-allpass-chain reverberator behind
// Reverb: eight parallel combs feed four series allpass stages per channel,
// the Freeverb topology. Damping is fixed rather than exposed, since the
// stream's extra-JSON only ever carries "time"/"dry"/"wet".
type diffusionTank struct {
	combL    [8]*combResonator
	combR    [8]*combResonator
	allpassL [4]*allpassDiffuser
	allpassR [4]*allpassDiffuser
	roomSize float64
}

const reverbFixedDamping = 0.5

func newDiffusionTank() *diffusionTank {
	t := &diffusionTank{roomSize: 0.5}
	for i, delay := range combTuningSamples {
		t.combL[i] = newCombResonator(delay)
		t.combR[i] = newCombResonator(delay + reverbStereoSpreadSamples)
	}
	for i, delay := range allpassTuningSamples {
		t.allpassL[i] = newAllpassDiffuser(delay)
		t.allpassR[i] = newAllpassDiffuser(delay + reverbStereoSpreadSamples)
	}
	t.applyRoomSize()
	return t
}

func (t *diffusionTank) setRoomSize(size float64) {
	t.roomSize = math.Max(0, math.Min(1, size))
	t.applyRoomSize()
}

func (t *diffusionTank) applyRoomSize() {
	feedback := t.roomSize*0.28 + 0.7
	damp1 := reverbFixedDamping * 0.4
	damp2 := 1 - damp1
	for i := range combTuningSamples {
		t.combL[i].setFeedback(feedback)
		t.combR[i].setFeedback(feedback)
		t.combL[i].setDamping(damp1, damp2)
		t.combR[i].setDamping(damp1, damp2)
	}
}

func (t *diffusionTank) processStereo(inL, inR float32) (float32, float32) {
	input := (inL + inR) * 0.015 // Freeverb's fixed input-gain tuning
	var outL, outR float32
	for i := range t.combL {
		outL += t.combL[i].process(input)
		outR += t.combR[i].process(input)
	}
	for i := range t.allpassL {
		outL = t.allpassL[i].process(outL)
		outR = t.allpassR[i].process(outR)
	}
	return outL, outR
}

func (t *diffusionTank) reset() {
	for i := range t.combL {
		t.combL[i].reset()
		t.combR[i].reset()
	}
	for i := range t.allpassL {
		t.allpassL[i].reset()
		t.allpassR[i].reset()
	}
}

// Reverb wraps diffusionTank behind the Fx hot-reload contract. Its extra
// JSON carries "time" (room size 0-1), "dry", and "wet" parameters, each
// either a constant or a knob name.
type Reverb struct {
	mu       sync.Mutex
	controls *param.Controls
	settings Settings

	time param.Parameter
	dry  param.Parameter
	wet  param.Parameter

	tank     *diffusionTank
	lastTime float64
	hasTime  bool
}

// NewReverb constructs an uninitialized Reverb bound to controls.
func NewReverb(controls *param.Controls) *Reverb {
	return &Reverb{controls: controls, tank: newDiffusionTank()}
}

func (r *Reverb) Init(settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	r.applyExtra(settings)
	return nil
}

func (r *Reverb) CanFastUpdate(settings Settings) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings.Type == settings.Type
}

func (r *Reverb) FastUpdate(settings Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	r.applyExtra(settings)
}

// applyExtra re-parses the extra JSON and rebuilds Parameters; on malformed
// JSON the previous Parameters are left in place.
func (r *Reverb) applyExtra(settings Settings) {
	fields := parseExtra(settings.Extra)
	if fields == nil {
		return
	}
	r.time = paramFrom(fields, "time", 0.5, r.controls)
	r.dry = paramFrom(fields, "dry", 1.0, r.controls)
	r.wet = paramFrom(fields, "wet", 0.0, r.controls)
}

func (r *Reverb) Render(tick uint64, buf *audiobuf.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := buf.Channel(audiobuf.Left)
	right := buf.Channel(audiobuf.Right)

	for i := range left {
		t := tick + uint64(i)

		time := r.time.ValueAt(t)
		if !r.hasTime || time != r.lastTime {
			r.tank.setRoomSize(time)
			r.lastTime = time
			r.hasTime = true
		}

		dry := float32(r.dry.ValueAt(t))
		wet := float32(r.wet.ValueAt(t))

		inL, inR := left[i], right[i]
		tankL, tankR := r.tank.processStereo(inL, inR)

		left[i] = dry*inL + wet*tankL
		right[i] = dry*inR + wet*tankR
	}
}
