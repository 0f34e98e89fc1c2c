// Package fx implements the hot-reloadable effect chain: the Fx interface,
// its Reverb and Chorus variants, and FxStack, the ordered chain a Track
// runs its rendered audio through.
package fx

import (
	"encoding/json"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/errs"
	"github.com/liveset-audio/dsp-engine/internal/param"
)

// Settings is the declarative description of one effect slot in a track's
// chain, as carried by TracksSpec.
type Settings struct {
	Name  string
	Type  string // "reverb" | "chorus"
	Mix   float64
	Extra string // opaque JSON, parsed per-type
}

// Fx is a hot-reloadable effect. Each implementation guards its own state
// with a mutex so FastUpdate (frontend thread) and Render (DSP thread) never
// race.
type Fx interface {
	Init(settings Settings) error
	CanFastUpdate(settings Settings) bool
	FastUpdate(settings Settings)
	Render(tick uint64, buf *audiobuf.Buffer)
}

// New constructs the Fx variant named by settings.Type, bound to controls
// for resolving any Knob-typed parameters in its extra JSON.
func New(settings Settings, controls *param.Controls) (Fx, error) {
	var f Fx
	switch settings.Type {
	case "reverb":
		f = NewReverb(controls)
	case "chorus":
		f = NewChorus(controls)
	default:
		return nil, errs.Newf(errs.InvalidArgument, "fx.New", "unknown fx type %q", settings.Type)
	}

	if err := f.Init(settings); err != nil {
		return nil, err
	}
	return f, nil
}

// parseExtra unmarshals the opaque Extra JSON into a generic field map, used
// by each Fx variant to build its Parameters. An empty payload yields an
// empty map, so every parameter takes its default. A malformed payload
// yields nil, which the variants treat as "keep the previous parameters";
// the parse error is not logged and never aborts Render.
func parseExtra(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}
	return fields
}

func paramFrom(fields map[string]any, key string, def float64, controls *param.Controls) param.Parameter {
	if fields == nil {
		return param.Constant(def)
	}
	v, ok := fields[key]
	if !ok {
		return param.Constant(def)
	}
	return param.FromJSONValue(v, controls)
}
