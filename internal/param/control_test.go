package param

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestControlImmediateJump(t *testing.T) {
	c := NewControl(0)
	c.SetTarget(1, 0)
	assert.Equal(t, 1.0, c.ValueAt(100))
}

func TestControlLinearRamp(t *testing.T) {
	c := NewControl(0)
	c.SetTarget(10, 10)

	assert.Equal(t, 0.0, c.ValueAt(0))
	assert.InDelta(t, 5.0, c.ValueAt(5), 1e-9)
	assert.InDelta(t, 10.0, c.ValueAt(10), 1e-9)
	// further ticks hold at target
	assert.InDelta(t, 10.0, c.ValueAt(20), 1e-9)
}

func TestControlDoesNotOvershoot(t *testing.T) {
	c := NewControl(0)
	c.SetTarget(1, 3)
	// jump straight to a tick far past the ramp duration
	assert.Equal(t, 1.0, c.ValueAt(1000))
}

func TestControlReachesTargetWithinRampProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a Control always reaches its target by the end of the ramp and never overshoots", prop.ForAll(
		func(start, target float64, rampTicks uint64) bool {
			c := NewControl(start)
			c.SetTarget(target, rampTicks)

			c.ValueAt(0) // the ramp is measured from the first read
			final := c.ValueAt(rampTicks)
			if rampTicks == 0 {
				return final == target
			}

			lo, hi := start, target
			if lo > hi {
				lo, hi = hi, lo
			}
			const eps = 1e-6
			reached := final-target <= eps && target-final <= eps
			return reached && final >= lo-eps && final <= hi+eps
		},
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
		gen.UInt64Range(0, 100000),
	))

	properties.TestingRun(t)
}
