package engine

import (
	"sort"

	"github.com/liveset-audio/dsp-engine/internal/track"
)

// SetupTracks reconciles the engine's track map against newList: kept
// tracks fast-update in place when possible, changed-instrument tracks and
// new tracks are constructed off the render path, and tracks absent from
// newList are dropped. It serializes with any other reconcile via
// setupTracksMutex and returns the canonical post-reconcile snapshot, so
// repeated calls with the same list are idempotent.
func (e *Engine) SetupTracks(newList []track.Settings) []track.Settings {
	e.setupTracksMutex.Lock()
	defer e.setupTracksMutex.Unlock()

	e.tracksMutex.RLock()
	existing := make(map[int]*track.Track, len(e.tracks))
	for id, tr := range e.tracks {
		existing[id] = tr
	}
	e.tracksMutex.RUnlock()

	next := make(map[int]*track.Track, len(newList))
	for _, settings := range newList {
		if tr, ok := existing[settings.ID]; ok && tr.CanFastUpdate(settings) {
			tr.FastUpdate(settings)
			next[settings.ID] = tr
			continue
		}

		built, err := track.New(settings, e.controls, e.samples)
		if err != nil {
			e.logger.Warn("setup tracks: skipping invalid track", "track_id", settings.ID, "err", err)
			continue
		}
		next[settings.ID] = built
	}

	e.tracksMutex.Lock()
	e.tracks = next
	e.tracksMutex.Unlock()

	e.dropIngressFor(next)

	return e.GetTracks()
}

// dropIngressFor discards pending and scheduled MIDI state for any track
// no longer present in kept, so a removed track's queued notes don't leak
// onto a future track reusing the same id.
func (e *Engine) dropIngressFor(kept map[int]*track.Track) {
	e.msgsMutex.Lock()
	defer e.msgsMutex.Unlock()

	for id := range e.pending {
		if _, ok := kept[id]; !ok {
			delete(e.pending, id)
		}
	}
	for id := range e.stacks {
		if _, ok := kept[id]; !ok {
			delete(e.stacks, id)
		}
	}
}

// GetTracks returns a copy of the current settings, ordered by track id.
func (e *Engine) GetTracks() []track.Settings {
	e.tracksMutex.RLock()
	defer e.tracksMutex.RUnlock()

	ids := make([]int, 0, len(e.tracks))
	for id := range e.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]track.Settings, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.tracks[id].Settings())
	}
	return out
}
