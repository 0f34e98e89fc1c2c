package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/param"
)

func TestNewUnknownTypeFails(t *testing.T) {
	_, err := New(Settings{Name: "x", Type: "flanger"}, nil)
	require.Error(t, err)
}

func TestReverbCanFastUpdateOnlyOnSameType(t *testing.T) {
	r := NewReverb(nil)
	require.NoError(t, r.Init(Settings{Type: "reverb", Extra: `{"time":0.5,"dry":0.6,"wet":0.4}`}))

	assert.True(t, r.CanFastUpdate(Settings{Type: "reverb"}))
	assert.False(t, r.CanFastUpdate(Settings{Type: "chorus"}))
}

func TestReverbRenderAppliesDryWetCoefficients(t *testing.T) {
	r := NewReverb(nil)
	require.NoError(t, r.Init(Settings{Type: "reverb", Extra: `{"time":0.5,"dry":1,"wet":0}`}))

	buf := audiobuf.New(8)
	left := buf.Channel(audiobuf.Left)
	right := buf.Channel(audiobuf.Right)
	for i := range left {
		left[i] = 1.0
		right[i] = 1.0
	}

	r.Render(0, buf)

	// dry=1, wet=0 means the reverb tail must not contribute.
	for i := range left {
		assert.InDelta(t, 1.0, left[i], 1e-6)
		assert.InDelta(t, 1.0, right[i], 1e-6)
	}
}

func TestReverbMalformedExtraKeepsPreviousParameters(t *testing.T) {
	r := NewReverb(nil)
	require.NoError(t, r.Init(Settings{Type: "reverb", Extra: `{"time":0.2,"dry":0.9,"wet":0.1}`}))

	before := r.dry
	r.FastUpdate(Settings{Type: "reverb", Extra: `not json`})
	assert.Equal(t, before, r.dry)
}

func TestChorusCanFastUpdateOnlyOnSameType(t *testing.T) {
	c := NewChorus(nil)
	require.NoError(t, c.Init(Settings{Type: "chorus", Extra: `{"time":20,"depth":2,"rate":0.5}`}))

	assert.True(t, c.CanFastUpdate(Settings{Type: "chorus"}))
	assert.False(t, c.CanFastUpdate(Settings{Type: "reverb"}))
}

func TestChorusRenderProducesFiniteOutput(t *testing.T) {
	c := NewChorus(nil)
	require.NoError(t, c.Init(Settings{Type: "chorus", Extra: `{"time":20,"depth":2,"rate":0.5}`}))

	buf := audiobuf.New(64)
	left := buf.Channel(audiobuf.Left)
	for i := range left {
		left[i] = 0.5
	}

	c.Render(0, buf)
	for _, v := range buf.Channel(audiobuf.Left) {
		assert.False(t, v != v, "unexpected NaN")
	}
}

func TestParameterFromJSONResolvesKnob(t *testing.T) {
	controls := param.NewControls()
	controls.Update("reverb_time", 0.75, 0)

	fields := parseExtra(`{"time":"reverb_time"}`)
	p := paramFrom(fields, "time", 0.5, controls)
	assert.True(t, p.IsKnob())
	assert.InDelta(t, 0.75, p.ValueAt(0), 1e-9)
}

func TestParameterFromJSONDefaultsWhenFieldMissing(t *testing.T) {
	fields := parseExtra(`{}`)
	p := paramFrom(fields, "dry", 1.0, nil)
	assert.Equal(t, 1.0, p.ValueAt(0))
}
