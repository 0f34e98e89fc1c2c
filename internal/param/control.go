// Package param implements the interpolating control-knob model (Control,
// Controls) and the Parameter tagged variant that resolves to either a
// constant or a named knob. Grounded on vst3go's pkg/framework/param
// (Smoother's per-step linear ramp, Registry's concurrent-map shape) and on
// original_source's src/core/parameter.hh / dsp/parameter.cc for the
// Constant|Knob tagged-variant contract.
package param

import "sync"

// Control is a named, interpolated float value. Writers (the control
// ingress) call SetTarget; readers (the DSP thread) call ValueAt once per
// sample with a monotonically increasing tick. A single mutex guards both
// sides: critical sections are a handful of float comparisons, well under
// the block budget, and stale reads are explicitly tolerated by the design
// (interpolation smooths over a slightly late update).
type Control struct {
	mu       sync.Mutex
	current  float64
	target   float64
	rate     float64 // change per tick, signed toward target
	lastTick uint64
	hasTick  bool
}

// NewControl creates a Control initialized to value with no ramp in
// progress.
func NewControl(value float64) *Control {
	return &Control{current: value, target: value}
}

// SetTarget begins ramping toward target over rampTicks sample-ticks. A
// rampTicks of 0 jumps immediately (used for the very first write to a
// freshly created knob).
func (c *Control) SetTarget(target float64, rampTicks uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = target
	if rampTicks == 0 {
		c.current = target
		c.rate = 0
		return
	}
	c.rate = (target - c.current) / float64(rampTicks)
}

// ValueAt advances the interpolation to tick and returns the resulting
// value. Calling it repeatedly with the same tick is idempotent; ticks must
// not move backwards (the scheduler's sample clock is monotonic).
func (c *Control) ValueAt(tick uint64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasTick {
		c.lastTick = tick
		c.hasTick = true
	}

	elapsed := tick - c.lastTick
	c.lastTick = tick

	if c.rate == 0 || elapsed == 0 {
		return c.current
	}

	diff := c.target - c.current
	step := c.rate * float64(elapsed)
	if (diff >= 0 && step >= diff) || (diff < 0 && step <= diff) {
		c.current = c.target
		c.rate = 0
	} else {
		c.current += step
	}
	return c.current
}

// Snapshot returns the current value without advancing interpolation, for
// diagnostics and tests.
func (c *Control) Snapshot() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
