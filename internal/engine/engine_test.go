package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/midi"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/track"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	controls := param.NewControls()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(controls, nil, logger, "127.0.0.1", 0)
}

func TestSetupTracksBuildsThenFastUpdates(t *testing.T) {
	e := newTestEngine(t)

	list := []track.Settings{{ID: 1, Instrument: track.InstrumentTestTone, Volume: 100, Pan: 64}}
	got := e.SetupTracks(list)
	require.Len(t, got, 1)
	assert.Equal(t, uint8(100), got[0].Volume)

	list[0].Volume = 50
	got2 := e.SetupTracks(list)
	require.Len(t, got2, 1)
	assert.Equal(t, uint8(50), got2[0].Volume)
}

func TestSetupTracksIsIdempotent(t *testing.T) {
	e := newTestEngine(t)

	list := []track.Settings{{ID: 1, Instrument: track.InstrumentTestTone}}
	first := e.SetupTracks(list)
	second := e.SetupTracks(list)
	assert.Equal(t, first, second)
}

func TestSetupTracksSkipsUnknownInstrument(t *testing.T) {
	e := newTestEngine(t)

	got := e.SetupTracks([]track.Settings{{ID: 1, Instrument: "fm_synth"}})
	assert.Empty(t, got)
}

func TestSetupTracksDropsIngressForRemovedTrack(t *testing.T) {
	e := newTestEngine(t)

	e.SetupTracks([]track.Settings{{ID: 1, Instrument: track.InstrumentTestTone}})
	e.PushMidiEvent(1, midi.NoteOnEvent{NoteNumber: 60, Velocity: 100}, time.Now())

	e.SetupTracks(nil)

	e.msgsMutex.Lock()
	_, stillPending := e.pending[1]
	_, stillStacked := e.stacks[1]
	e.msgsMutex.Unlock()

	assert.False(t, stillPending)
	assert.False(t, stillStacked)
}

func TestTickForAppliesSchedulingDelay(t *testing.T) {
	e := newTestEngine(t)
	e.currentTick = 1000
	now := time.Now()
	samplePeriod := time.Second / time.Duration(SampleRate)

	tick := e.tickFor(now, now, samplePeriod)
	assert.Equal(t, uint64(1000)+SchedulingDelayBlocks*uint64(BlockSize), tick)
}

func TestTickForClampsPastTimestampsToZeroDelta(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now()
	past := now.Add(-time.Second)
	samplePeriod := time.Second / time.Duration(SampleRate)

	tick := e.tickFor(past, now, samplePeriod)
	assert.Equal(t, SchedulingDelayBlocks*uint64(BlockSize), tick)
}

func TestPromotePendingMovesEventsIntoStack(t *testing.T) {
	e := newTestEngine(t)
	e.SetupTracks([]track.Settings{{ID: 1, Instrument: track.InstrumentTestTone}})
	e.PushMidiEvent(1, midi.NoteOnEvent{NoteNumber: 60, Velocity: 100}, time.Now())

	e.promotePending()

	e.msgsMutex.Lock()
	assert.Empty(t, e.pending[1])
	assert.Equal(t, 1, e.stacks[1].Size())
	e.msgsMutex.Unlock()
}

func TestRenderBlockSumsTrackOutputs(t *testing.T) {
	e := newTestEngine(t)

	tr1, err := track.New(track.Settings{ID: 1, Instrument: track.InstrumentTestTone, Volume: 127, Pan: 64}, e.controls, nil)
	require.NoError(t, err)
	tr2, err := track.New(track.Settings{ID: 2, Instrument: track.InstrumentTestTone, Volume: 127, Pan: 64}, e.controls, nil)
	require.NoError(t, err)

	e.tracksMutex.Lock()
	e.tracks = map[int]*track.Track{1: tr1, 2: tr2}
	e.tracksMutex.Unlock()

	e.stacks[1] = midi.NewStack()
	e.stacks[1].Add(midi.EventAt{TrackID: 1, Message: midi.NoteOnEvent{NoteNumber: 69, Velocity: 127}, Tick: 0})
	e.stacks[2] = midi.NewStack()
	e.stacks[2].Add(midi.EventAt{TrackID: 2, Message: midi.NoteOnEvent{NoteNumber: 69, Velocity: 127}, Tick: 0})

	mix := audiobuf.New(BlockSize)
	scratch := audiobuf.New(BlockSize)
	e.renderBlock(mix, scratch)

	nonZero := false
	for _, v := range mix.Channel(audiobuf.Left) {
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}
