// Package track implements Track, the reconciled unit the engine renders:
// a MIDI-driven instrument plus its effect chain, addressable by channel.
package track

import (
	"sync"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/errs"
	"github.com/liveset-audio/dsp-engine/internal/fx"
	"github.com/liveset-audio/dsp-engine/internal/instrument"
	"github.com/liveset-audio/dsp-engine/internal/midi"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/sample"
)

const engineSampleRate = 48000

const (
	// InstrumentMonoSampler plays pitched one-shots from a sample pack.
	InstrumentMonoSampler = "mono_sampler"
	// InstrumentTestTone is the supplemented synthetic oscillator source
	// (see SPEC_FULL.md §1.3): a vibrato-modulated sine, useful for exercising
	// the render/stream path without a sample pack on disk.
	InstrumentTestTone = "test_tone"
)

// Settings is the declarative description of one track, as carried by
// TracksSpec.
type Settings struct {
	ID         int
	Instrument string
	Channel    uint8
	Muted      bool
	Volume     uint8 // 0-127
	Pan        uint8 // 0-127
	Fxs        []fx.Settings

	// SamplePack names the pack MonoSampler resolves MIDI notes against.
	// Supplemented: original_source's TrackSettings carries no such field,
	// but MonoSampler cannot look up samples by note without one (see
	// DESIGN.md).
	SamplePack string
}

// Track holds one channel's instrument and effect chain, reconciled by the
// engine's SetupTracks protocol.
type Track struct {
	mu       sync.Mutex
	settings Settings
	inst     instrument.Instrument
	fxStack  *fx.Stack
	controls *param.Controls
	samples  *sample.Manager
}

// New constructs and initializes a Track from settings.
func New(settings Settings, controls *param.Controls, samples *sample.Manager) (*Track, error) {
	t := &Track{controls: controls, samples: samples}
	if err := t.init(settings); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Track) init(settings Settings) error {
	inst, err := newInstrument(settings, t.samples)
	if err != nil {
		return err
	}

	fxStack, err := fx.NewStack(settings.Fxs, t.controls)
	if err != nil {
		return err
	}

	t.settings = settings
	t.inst = inst
	t.fxStack = fxStack
	return nil
}

func newInstrument(settings Settings, samples *sample.Manager) (instrument.Instrument, error) {
	switch settings.Instrument {
	case InstrumentMonoSampler:
		sampler := instrument.NewMonoSampler()
		if settings.SamplePack != "" && samples != nil {
			if pack, err := samples.GetPack(settings.SamplePack); err == nil {
				sampler.SetPack(pack)
			}
		}
		return sampler, nil
	case InstrumentTestTone:
		return instrument.NewTestTone(engineSampleRate), nil
	default:
		return nil, errs.Newf(errs.InvalidArgument, "track.Init", "unknown instrument %q", settings.Instrument)
	}
}

// CanFastUpdate reports whether new settings keep the same instrument id.
func (t *Track) CanFastUpdate(settings Settings) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings.Instrument == settings.Instrument
}

// FastUpdate swaps in new settings and the fx stack's own fast-update path
// without reconstructing the instrument.
func (t *Track) FastUpdate(settings Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings = settings
	if sampler, ok := t.inst.(*instrument.MonoSampler); ok && settings.SamplePack != "" && t.samples != nil {
		if pack, err := t.samples.GetPack(settings.SamplePack); err == nil {
			sampler.SetPack(pack)
		}
	}

	if t.fxStack.CanFastUpdate(settings.Fxs) {
		t.fxStack.FastUpdate(settings.Fxs)
		return
	}
	_ = t.fxStack.Rebuild(settings.Fxs)
}

// Settings returns a copy of the current settings.
func (t *Track) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Channel returns the MIDI channel this track listens on.
func (t *Track) Channel() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings.Channel
}

// Render applies pending CC events, then (unless muted) runs the
// instrument, per-track gain/pan, and the fx chain into buf.
func (t *Track) Render(tick uint64, events []midi.EventAt, buf *audiobuf.Buffer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range events {
		t.handleEvent(e.Message)
	}

	if t.settings.Muted {
		buf.Reset()
		return
	}

	for _, e := range events {
		if cc, isCC := e.Message.(midi.ControlChangeEvent); isCC {
			switch cc.Controller {
			case midi.CCMute, midi.CCVolume, midi.CCPan:
				continue
			}
		}
		t.inst.HandleEvent(e.Message)
	}
	t.inst.Render(tick, buf)

	buf.ApplyGain(float32(t.settings.Volume) / 127.0)
	buf.ApplyPan(float32(t.settings.Pan) / 127.0)

	t.fxStack.Render(tick, buf)
}

func (t *Track) handleEvent(e midi.Event) {
	cc, ok := e.(midi.ControlChangeEvent)
	if !ok || cc.Channel() != t.settings.Channel {
		return
	}
	switch cc.Controller {
	case midi.CCMute:
		if cc.Value != 0 {
			t.settings.Muted = !t.settings.Muted
		}
	case midi.CCVolume:
		t.settings.Volume = cc.Value
	case midi.CCPan:
		t.settings.Pan = cc.Value
	}
}
