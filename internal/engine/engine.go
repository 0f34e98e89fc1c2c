// Package engine implements the DSP loop: a worker goroutine that renders
// fixed-size blocks on a wall-clock cadence, reconciles track settings
// pushed by the frontend, and fans finished blocks out to registered
// consumers. Grounded on vst3go's BufferedProcessor worker-goroutine
// pattern (pkg/plugin/buffered_processor.go) for the context+WaitGroup
// worker lifecycle, adapted from its 5ms polling ticker to the spec's
// precise next_block_at accumulation.
package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/dsp/gain"
	"github.com/liveset-audio/dsp-engine/internal/midi"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/sample"
	"github.com/liveset-audio/dsp-engine/internal/stream"
	"github.com/liveset-audio/dsp-engine/internal/track"
)

const (
	SampleRate            = 48000
	Channels              = 2
	BlockSize             = 512
	SchedulingDelayBlocks = 7
)

var blockDuration = time.Duration(float64(BlockSize) / float64(SampleRate) * float64(time.Second))

// Engine owns the DSP loop: the track map, pending MIDI ingress, the
// registered consumer list, and the lazily-started HTTP stream server.
type Engine struct {
	controls *param.Controls
	samples  *sample.Manager
	logger   *slog.Logger

	tracksMutex sync.RWMutex
	tracks      map[int]*track.Track

	setupTracksMutex sync.Mutex

	// msgsMutex guards both the raw wall-clock ingress queue (pending) and
	// the tick-promoted per-track stacks (stacks), per the spec's single
	// "pending-events mutex" covering both.
	msgsMutex sync.Mutex
	pending   map[int][]midi.EventAt // wall-clock only; tick unset until promoted
	stacks    map[int]*midi.Stack

	consumersMutex sync.Mutex
	consumers      []stream.SampleConsumer

	httpOnce   sync.Once
	httpServer *stream.HttpServer
	httpHost   string
	httpPort   int

	currentTick  uint64
	nextBlockAt  time.Time
	statsEvery   time.Duration
	lastStatsAt  time.Time
	blocksSinceStats int
	renderNsSinceStats int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an idle Engine. Call Run to start the DSP loop.
func New(controls *param.Controls, samples *sample.Manager, logger *slog.Logger, httpHost string, httpPort int) *Engine {
	return &Engine{
		controls:   controls,
		samples:    samples,
		logger:     logger,
		tracks:     make(map[int]*track.Track),
		pending:    make(map[int][]midi.EventAt),
		stacks:     make(map[int]*midi.Stack),
		httpHost:   httpHost,
		httpPort:   httpPort,
		statsEvery: 5 * time.Second,
	}
}

// Run starts the DSP loop goroutine. It returns immediately; call Stop to
// shut the loop down.
func (e *Engine) Run(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.nextBlockAt = time.Now()
	e.lastStatsAt = time.Now()

	e.wg.Add(1)
	go e.loop(loopCtx)
}

// Stop signals the loop to exit after finishing its current block and
// waits for it to do so.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	if e.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.httpServer.Stop(shutdownCtx); err != nil {
			e.logger.Warn("http server shutdown", "err", err)
		}
	}
}

func (e *Engine) loop(ctx context.Context) {
	defer e.wg.Done()

	mix := audiobuf.New(BlockSize)
	scratch := audiobuf.New(BlockSize)

	for {
		wait := time.Until(e.nextBlockAt)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		start := time.Now()
		e.renderBlock(mix, scratch)
		e.renderNsSinceStats += time.Since(start).Nanoseconds()
		e.blocksSinceStats++

		e.currentTick += uint64(BlockSize)
		e.nextBlockAt = e.nextBlockAt.Add(blockDuration)
		e.maybeLogStats()
	}
}

// renderBlock runs one iteration of the time model described in the DSP
// loop's step list: promote pending ingress to per-track stacks, render
// every track into mix, and fan the finished block out to consumers.
func (e *Engine) renderBlock(mix, scratch *audiobuf.Buffer) {
	e.promotePending()

	mix.Reset()

	e.tracksMutex.RLock()
	ids := make([]int, 0, len(e.tracks))
	for id := range e.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	blockEndTick := e.currentTick + uint64(BlockSize) - 1
	for _, id := range ids {
		tr := e.tracks[id]

		e.msgsMutex.Lock()
		var events []midi.EventAt
		if stack, ok := e.stacks[id]; ok {
			events = stack.DrainUpTo(blockEndTick)
		}
		e.msgsMutex.Unlock()

		scratch.Reset()
		tr.Render(e.currentTick, events, scratch)
		mix.AddFrom(scratch)
	}
	e.tracksMutex.RUnlock()

	gain.HardClipBuffer(mix.Channel(audiobuf.Left), 1.0)
	gain.HardClipBuffer(mix.Channel(audiobuf.Right), 1.0)

	e.consumersMutex.Lock()
	for _, c := range e.consumers {
		c.PushAudioBuffer(mix)
	}
	e.consumersMutex.Unlock()
}

// promotePending converts wall-clock-timestamped ingress events into
// tick-stamped events on each track's MidiStack, per the scheduling-delay
// formula that absorbs frontend jitter.
func (e *Engine) promotePending() {
	now := time.Now()
	samplePeriod := time.Second / time.Duration(SampleRate)

	e.msgsMutex.Lock()
	defer e.msgsMutex.Unlock()

	pending := e.pending
	e.pending = make(map[int][]midi.EventAt, len(pending))

	for trackID, events := range pending {
		stack, ok := e.stacks[trackID]
		if !ok {
			stack = midi.NewStack()
			e.stacks[trackID] = stack
		}
		for _, ev := range events {
			ev.Tick = e.tickFor(ev.WallTimeAt, now, samplePeriod)
			stack.Add(ev)
		}
	}
}

// tickFor implements the spec's wall-clock-to-tick conversion:
// tick = current_tick + max(0, round((at-now)/sample_period)) + scheduling_delay_blocks*block_size.
func (e *Engine) tickFor(at, now time.Time, samplePeriod time.Duration) uint64 {
	deltaSamples := math.Round(float64(at.Sub(now)) / float64(samplePeriod))
	if deltaSamples < 0 {
		deltaSamples = 0
	}
	return e.currentTick + uint64(deltaSamples) + SchedulingDelayBlocks*uint64(BlockSize)
}

func (e *Engine) maybeLogStats() {
	if time.Since(e.lastStatsAt) < e.statsEvery {
		return
	}
	blocks := e.blocksSinceStats
	if blocks == 0 {
		return
	}
	avgRenderNs := e.renderNsSinceStats / int64(blocks)
	occupancy := float64(avgRenderNs) / float64(blockDuration.Nanoseconds()) * 100

	e.tracksMutex.RLock()
	numTracks := len(e.tracks)
	e.tracksMutex.RUnlock()

	e.logger.Info("dsp loop stats",
		"blocks", blocks,
		"avg_render_us", avgRenderNs/1000,
		"occupancy_pct", occupancy,
		"tracks", numTracks,
		"current_tick", e.currentTick,
	)

	e.blocksSinceStats = 0
	e.renderNsSinceStats = 0
	e.lastStatsAt = time.Now()
}

// RegisterConsumer adds c to the fan-out list. Safe to call concurrently
// with the DSP loop; the critical section is bounded.
func (e *Engine) RegisterConsumer(c stream.SampleConsumer) {
	e.consumersMutex.Lock()
	e.consumers = append(e.consumers, c)
	e.consumersMutex.Unlock()
}

// RemoveConsumer drops c from the fan-out list.
func (e *Engine) RemoveConsumer(c stream.SampleConsumer) {
	e.consumersMutex.Lock()
	defer e.consumersMutex.Unlock()
	for i, existing := range e.consumers {
		if existing == c {
			e.consumers = append(e.consumers[:i], e.consumers[i+1:]...)
			return
		}
	}
}

// EnsureHTTPServer lazily starts the streaming HTTP server on first use.
func (e *Engine) EnsureHTTPServer() (*stream.HttpServer, error) {
	var startErr error
	e.httpOnce.Do(func() {
		e.httpServer = stream.NewHttpServer(e.httpHost, e.httpPort, SampleRate, e, e.logger)
		startErr = e.httpServer.Start()
	})
	return e.httpServer, startErr
}

// PushMidiEvent appends a wall-clock-timestamped event to the ingress
// queue for trackID and returns immediately; the DSP loop promotes it to
// a scheduled tick on its next iteration.
func (e *Engine) PushMidiEvent(trackID int, msg midi.Event, wallNow time.Time) {
	e.msgsMutex.Lock()
	e.pending[trackID] = append(e.pending[trackID], midi.EventAt{
		TrackID:    trackID,
		Message:    msg,
		WallTimeAt: wallNow,
	})
	e.msgsMutex.Unlock()
}
