package ingress

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveset-audio/dsp-engine/internal/engine"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/track"
)

func newTestIngress(t *testing.T) (*Ingress, *param.Controls) {
	t.Helper()
	controls := param.NewControls()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(controls, nil, logger, "127.0.0.1", 0)
	return New(eng, controls), controls
}

func TestSetupTracksAndGetTracksRoundTrip(t *testing.T) {
	ing, _ := newTestIngress(t)

	specs := []track.Settings{{ID: 1, Instrument: track.InstrumentTestTone, Volume: 90, Pan: 64}}
	got := ing.SetupTracks(specs)
	require.Len(t, got, 1)
	assert.Equal(t, uint8(90), got[0].Volume)

	assert.Equal(t, got, ing.GetTracks())
}

func TestPushMidiEventsAcceptsNoteOn(t *testing.T) {
	ing, _ := newTestIngress(t)
	ing.SetupTracks([]track.Settings{{ID: 1, Instrument: track.InstrumentTestTone}})

	noteOn := []byte{0x90, 60, 100} // channel 0 note-on, note 60, vel 100
	resp, err := ing.PushMidiEvents(PushMidiEventsRequest{TrackID: 1, Data: noteOn})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Accepted)
}

func TestPushMidiEventsRoutesUpdateControlsSysExToRegistry(t *testing.T) {
	ing, controls := newTestIngress(t)

	payload := []byte(`{"targets":{"reverb_time":0.75}}`)
	sysex := append([]byte{0xF0, byte(1)}, payload...) // instruction 1 = update_controls
	sysex = append(sysex, 0xF7)

	resp, err := ing.PushMidiEvents(PushMidiEventsRequest{TrackID: 0, Data: sysex})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Accepted)

	knob, ok := controls.Get("reverb_time")
	require.True(t, ok)
	assert.InDelta(t, 0.75, knob.Snapshot(), 1e-9)
}

func TestPushMidiEventsMalformedControlsPayloadErrors(t *testing.T) {
	ing, _ := newTestIngress(t)

	sysex := []byte{0xF0, byte(1), '{', 'n', 'o', 't', 'j', 's', 'o', 'n', 0xF7}
	_, err := ing.PushMidiEvents(PushMidiEventsRequest{TrackID: 0, Data: sysex})
	assert.Error(t, err)
}
