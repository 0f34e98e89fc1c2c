package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlsGetOrCreate(t *testing.T) {
	c := NewControls()
	_, ok := c.Get("reverb_time")
	assert.False(t, ok)

	k := c.GetOrCreate("reverb_time")
	require.NotNil(t, k)

	k2, ok := c.Get("reverb_time")
	require.True(t, ok)
	assert.Same(t, k, k2)
}

func TestControlsUpdate(t *testing.T) {
	c := NewControls()
	c.Update("wet", 0.8, 0)
	k, ok := c.Get("wet")
	require.True(t, ok)
	assert.Equal(t, 0.8, k.Snapshot())
}

func TestControlsNames(t *testing.T) {
	c := NewControls()
	c.GetOrCreate("a")
	c.GetOrCreate("b")
	names := c.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "b")
}
