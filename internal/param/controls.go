package param

import "sync"

// Controls is the process-wide registry of named control knobs, grounded on
// vst3go's Registry but keyed by string name instead of a numeric
// parameter ID, matching the spec's named-knob model. It is passed
// explicitly into Parameter constructors and DSP nodes rather than reached
// through a global.
type Controls struct {
	mu    sync.RWMutex
	knobs map[string]*Control
}

// NewControls creates an empty registry.
func NewControls() *Controls {
	return &Controls{knobs: make(map[string]*Control)}
}

// Get returns the named knob if it exists.
func (c *Controls) Get(name string) (*Control, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.knobs[name]
	return k, ok
}

// GetOrCreate returns the named knob, creating it at 0 on first reference.
func (c *Controls) GetOrCreate(name string) *Control {
	c.mu.RLock()
	k, ok := c.knobs[name]
	c.mu.RUnlock()
	if ok {
		return k
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.knobs[name]; ok {
		return k
	}
	k = NewControl(0)
	c.knobs[name] = k
	return k
}

// Update applies a target to a named knob, creating it if necessary. This
// is the ingress write path driven by soir_internal_controls sysex
// payloads.
func (c *Controls) Update(name string, target float64, rampTicks uint64) {
	c.GetOrCreate(name).SetTarget(target, rampTicks)
}

// Names returns the currently known knob names, for diagnostics.
func (c *Controls) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.knobs))
	for name := range c.knobs {
		names = append(names, name)
	}
	return names
}
