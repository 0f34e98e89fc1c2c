package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffusionTankSilentInputStaysSilent(t *testing.T) {
	tank := newDiffusionTank()
	outL, outR := tank.processStereo(0, 0)
	assert.Zero(t, outL)
	assert.Zero(t, outR)
}

func TestDiffusionTankImpulseProducesTail(t *testing.T) {
	tank := newDiffusionTank()
	tank.processStereo(1, 1)

	tailFound := false
	for i := 0; i < 4000; i++ {
		outL, outR := tank.processStereo(0, 0)
		if outL != 0 || outR != 0 {
			tailFound = true
			break
		}
	}
	assert.True(t, tailFound, "expected a reverb tail to follow the impulse")
}

func TestDiffusionTankOutputNeverNaN(t *testing.T) {
	tank := newDiffusionTank()
	tank.setRoomSize(1.5) // out of range, should clamp rather than misbehave
	for i := 0; i < 1000; i++ {
		outL, outR := tank.processStereo(1, -1)
		assert.False(t, math.IsNaN(float64(outL)), "NaN at sample %d", i)
		assert.False(t, math.IsNaN(float64(outR)), "NaN at sample %d", i)
	}
}

func TestDiffusionTankResetClearsState(t *testing.T) {
	tank := newDiffusionTank()
	tank.processStereo(1, 1)
	for i := 0; i < 200; i++ {
		tank.processStereo(0, 0)
	}

	tank.reset()
	outL, outR := tank.processStereo(0, 0)
	assert.Zero(t, outL)
	assert.Zero(t, outR)
}

func TestDiffusionTankStereoSpreadDecorrelatesChannels(t *testing.T) {
	tank := newDiffusionTank()
	tank.processStereo(1, 1)

	var outL, outR float32
	for i := 0; i < 64; i++ {
		outL, outR = tank.processStereo(0, 0)
	}
	// Left and right comb/allpass delay lines are offset by
	// reverbStereoSpreadSamples, so a mono impulse should not produce
	// identical L/R taps.
	assert.NotEqual(t, outL, outR)
}
