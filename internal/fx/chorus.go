package fx

import (
	"math"
	"sync"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/param"
)

const (
	chorusMinDelayMs    = 1.0
	chorusMaxDelayMs    = 50.0
	chorusMaxDepthMs    = 10.0
	chorusMinRateHz     = 0.01
	chorusMaxRateHz     = 10.0
	chorusLaneCount     = 2
	chorusDelayHeadroom = 1.2
)

// chorusLane is one modulated delay line in the chorus voice: a sine LFO
// sweeps its read offset around the base delay, and the lane is read back
// with linear interpolation between samples.
type chorusLane struct {
	buffer  []float32
	writeAt int

	phase    float64
	phaseInc float64
}

func newChorusLane(maxSamples int, startPhase float64) *chorusLane {
	return &chorusLane{buffer: make([]float32, maxSamples), phase: startPhase}
}

func (l *chorusLane) setRate(hz float64) {
	l.phaseInc = hz / engineSampleRate
}

func (l *chorusLane) reset() {
	for i := range l.buffer {
		l.buffer[i] = 0
	}
	l.writeAt = 0
}

// tick writes in into the lane and reads back delayMs+depthMs*sin(phase)
// samples behind the write head, advancing the LFO phase by one sample.
func (l *chorusLane) tick(in float32, delayMs, depthMs float64) float32 {
	l.buffer[l.writeAt] = in

	modulated := math.Sin(2 * math.Pi * l.phase)
	delaySamples := (delayMs + depthMs*modulated) * engineSampleRate / 1000.0
	maxDelay := float64(len(l.buffer) - 1)
	delaySamples = math.Max(1.0, math.Min(maxDelay, delaySamples))

	readPos := float64(l.writeAt) - delaySamples
	if readPos < 0 {
		readPos += float64(len(l.buffer))
	}
	readIdx := int(readPos)
	frac := float32(readPos - float64(readIdx))
	idx2 := (readIdx + 1) % len(l.buffer)
	out := l.buffer[readIdx]*(1-frac) + l.buffer[idx2]*frac

	l.phase += l.phaseInc
	if l.phase >= 1.0 {
		l.phase -= 1.0
	}
	l.writeAt = (l.writeAt + 1) % len(l.buffer)
	return out
}

// chorusVoice is a two-lane modulated delay line, one lane feeding each
// output channel, their LFOs a half-cycle out of phase so the stereo image
// widens rather than the two channels tracking each other.
type chorusVoice struct {
	lanes           [chorusLaneCount]*chorusLane
	delayMs         float64
	depthMs         float64
	maxDelaySamples int
}

func newChorusVoice() *chorusVoice {
	v := &chorusVoice{delayMs: 20.0, depthMs: 2.0}
	v.resize()
	for i := range v.lanes {
		v.lanes[i] = newChorusLane(v.maxDelaySamples, float64(i)/float64(chorusLaneCount))
		v.lanes[i].setRate(0.5)
	}
	return v
}

func (v *chorusVoice) resize() {
	maxMs := v.delayMs + v.depthMs
	v.maxDelaySamples = int(maxMs*engineSampleRate/1000.0*chorusDelayHeadroom) + 1
}

func (v *chorusVoice) setDelay(ms float64) {
	v.delayMs = math.Max(chorusMinDelayMs, math.Min(chorusMaxDelayMs, ms))
	v.growIfNeeded()
}

func (v *chorusVoice) setDepth(ms float64) {
	v.depthMs = math.Max(0.0, math.Min(chorusMaxDepthMs, ms))
	v.growIfNeeded()
}

func (v *chorusVoice) setRate(hz float64) {
	hz = math.Max(chorusMinRateHz, math.Min(chorusMaxRateHz, hz))
	for _, lane := range v.lanes {
		lane.setRate(hz)
	}
}

// growIfNeeded reallocates the lane buffers only when a new delay/depth
// setting would overrun the current headroom; a knob ramping within the
// existing range never reallocates.
func (v *chorusVoice) growIfNeeded() {
	prev := v.maxDelaySamples
	v.resize()
	if v.maxDelaySamples <= prev {
		v.maxDelaySamples = prev
		return
	}
	for _, lane := range v.lanes {
		grown := make([]float32, v.maxDelaySamples)
		copy(grown, lane.buffer)
		lane.buffer = grown
	}
}

func (v *chorusVoice) processStereo(inL, inR float32) (float32, float32) {
	outL := v.lanes[0].tick(inL, v.delayMs, v.depthMs)
	outR := v.lanes[1].tick(inR, v.delayMs, v.depthMs)
	return outL, outR
}

func (v *chorusVoice) reset() {
	for _, lane := range v.lanes {
		lane.reset()
	}
}

// Chorus wraps chorusVoice behind the Fx hot-reload contract. Its extra
// JSON carries "time" (base delay ms), "depth" (ms), and "rate" (Hz)
// parameters, mirroring Reverb's pattern. Stack.Render owns the wet/dry mix
// (via Settings.Mix), so the voice always runs fully wet here.
type Chorus struct {
	mu       sync.Mutex
	controls *param.Controls
	settings Settings

	time  param.Parameter
	depth param.Parameter
	rate  param.Parameter

	voice *chorusVoice

	lastTime, lastDepth, lastRate float64
	hasState                      bool
}

// NewChorus constructs an uninitialized Chorus bound to controls.
func NewChorus(controls *param.Controls) *Chorus {
	return &Chorus{controls: controls, voice: newChorusVoice()}
}

func (c *Chorus) Init(settings Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
	c.applyExtra(settings)
	return nil
}

func (c *Chorus) CanFastUpdate(settings Settings) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Type == settings.Type
}

func (c *Chorus) FastUpdate(settings Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
	c.applyExtra(settings)
}

func (c *Chorus) applyExtra(settings Settings) {
	fields := parseExtra(settings.Extra)
	if fields == nil {
		return
	}
	c.time = paramFrom(fields, "time", 20.0, c.controls)
	c.depth = paramFrom(fields, "depth", 2.0, c.controls)
	c.rate = paramFrom(fields, "rate", 0.5, c.controls)
}

func (c *Chorus) Render(tick uint64, buf *audiobuf.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := buf.Channel(audiobuf.Left)
	right := buf.Channel(audiobuf.Right)

	for i := range left {
		t := tick + uint64(i)

		time := c.time.ValueAt(t)
		depth := c.depth.ValueAt(t)
		rate := c.rate.ValueAt(t)
		if !c.hasState || time != c.lastTime || depth != c.lastDepth || rate != c.lastRate {
			c.voice.setDelay(time)
			c.voice.setDepth(depth)
			c.voice.setRate(rate)
			c.lastTime, c.lastDepth, c.lastRate = time, depth, rate
			c.hasState = true
		}

		left[i], right[i] = c.voice.processStereo(left[i], right[i])
	}
}
