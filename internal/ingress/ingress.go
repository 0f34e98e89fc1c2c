// Package ingress implements the external-control entry points: the RPC
// surface (plain Go methods, used directly by cmd/ and tests) and, in
// osc.go, an OSC transport mapping the same three operations onto
// addresses for a detached live-coding frontend.
package ingress

import (
	"encoding/json"
	"time"

	"github.com/liveset-audio/dsp-engine/internal/engine"
	"github.com/liveset-audio/dsp-engine/internal/errs"
	"github.com/liveset-audio/dsp-engine/internal/midi"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/track"
)

// Ingress exposes SetupTracks, GetTracks, and PushMidiEvents over the
// engine, decoding raw MIDI bytes and routing soir_internal_controls
// sysex to the control registry instead of a track.
type Ingress struct {
	engine   *engine.Engine
	controls *param.Controls
}

// New builds an Ingress bound to eng, applying sysex control updates to
// controls.
func New(eng *engine.Engine, controls *param.Controls) *Ingress {
	return &Ingress{engine: eng, controls: controls}
}

// PushMidiEventsRequest carries raw MIDI bytes for one track plus an
// optional wall-time (defaulting to now if zero).
type PushMidiEventsRequest struct {
	TrackID int
	Data    []byte
	At      time.Time
}

// PushMidiEventsResponse reports how many decoded messages were accepted.
type PushMidiEventsResponse struct {
	Accepted int
}

// SetupTracks reconciles the engine's tracks to match specs, returning the
// canonical post-reconcile snapshot.
func (i *Ingress) SetupTracks(specs []track.Settings) []track.Settings {
	return i.engine.SetupTracks(specs)
}

// GetTracks returns the engine's current track settings.
func (i *Ingress) GetTracks() []track.Settings {
	return i.engine.GetTracks()
}

// PushMidiEvents decodes req.Data into individual MIDI messages. SysEx
// messages carrying the update_controls instruction are applied to the
// control registry directly; SysEx messages with any other instruction are
// counted as accepted and otherwise dropped. Every non-SysEx message is
// queued against req.TrackID.
func (i *Ingress) PushMidiEvents(req PushMidiEventsRequest) (PushMidiEventsResponse, error) {
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}

	events := midi.DecodeMessages(req.Data)
	accepted := 0
	for _, ev := range events {
		if sysex, ok := ev.(midi.SysExEvent); ok {
			if err := i.applySysEx(sysex); err != nil {
				return PushMidiEventsResponse{Accepted: accepted}, err
			}
			accepted++
			continue
		}
		i.engine.PushMidiEvent(req.TrackID, ev, at)
		accepted++
	}
	return PushMidiEventsResponse{Accepted: accepted}, nil
}

// controlsUpdate is the update_controls sysex payload shape: a flat map of
// knob name to target value, ramped over rampTicks (0 = immediate).
type controlsUpdate struct {
	Targets   map[string]float64 `json:"targets"`
	RampTicks uint64             `json:"ramp_ticks"`
}

func (i *Ingress) applySysEx(sysex midi.SysExEvent) error {
	if sysex.Instruction != midi.SysExUpdateControls {
		return nil
	}

	var update controlsUpdate
	if err := json.Unmarshal(sysex.Payload, &update); err != nil {
		return errs.New(errs.InvalidArgument, "ingress.PushMidiEvents", err)
	}
	for name, target := range update.Targets {
		i.controls.Update(name, target, update.RampTicks)
	}
	return nil
}
