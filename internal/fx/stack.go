package fx

import (
	"sync"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
	"github.com/liveset-audio/dsp-engine/internal/param"
)

// Stack owns an ordered chain of named Fx, applied in sequence to a track's
// rendered buffer. pre is a scratch buffer sized on Render's first call and
// reused every block after that; every track renders into a fixed-size
// buffer for the life of the process, so one lazy allocation is all Render
// ever needs.
type Stack struct {
	mu       sync.Mutex
	controls *param.Controls
	order    []string
	byName   map[string]Fx
	settings map[string]Settings
	pre      *audiobuf.Buffer
}

// NewStack builds a Stack from an ordered settings list. A settings entry
// naming an unknown type fails the whole stack with an InvalidArgument error.
func NewStack(list []Settings, controls *param.Controls) (*Stack, error) {
	s := &Stack{
		controls: controls,
		byName:   make(map[string]Fx, len(list)),
		settings: make(map[string]Settings, len(list)),
	}
	if err := s.init(list); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stack) init(list []Settings) error {
	order := make([]string, 0, len(list))
	byName := make(map[string]Fx, len(list))
	settings := make(map[string]Settings, len(list))

	for _, entry := range list {
		f, err := New(entry, s.controls)
		if err != nil {
			return err
		}
		order = append(order, entry.Name)
		byName[entry.Name] = f
		settings[entry.Name] = entry
	}

	s.order = order
	s.byName = byName
	s.settings = settings
	return nil
}

// CanFastUpdate reports whether list has the same ordered names and types as
// the current chain (same multiset under the same order).
func (s *Stack) CanFastUpdate(list []Settings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(list) != len(s.order) {
		return false
	}
	for i, entry := range list {
		if entry.Name != s.order[i] {
			return false
		}
		if s.settings[entry.Name].Type != entry.Type {
			return false
		}
	}
	return true
}

// FastUpdate applies FastUpdate to each member fx in place.
func (s *Stack) FastUpdate(list []Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range list {
		if f, ok := s.byName[entry.Name]; ok {
			f.FastUpdate(entry)
			s.settings[entry.Name] = entry
		}
	}
}

// Rebuild replaces the chain entirely, used when CanFastUpdate is false.
func (s *Stack) Rebuild(list []Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init(list)
}

// Render runs each effect in order, sharing buf. Settings.Mix crossfades
// each effect's contribution against its pre-effect input: mix=1 is fully
// wet (the effect's own Render decides its internal balance), mix=0 passes
// the slot through unchanged.
func (s *Stack) Render(tick uint64, buf *audiobuf.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pre == nil {
		s.pre = audiobuf.New(buf.Size())
	}

	for _, name := range s.order {
		f := s.byName[name]
		mix := float32(s.settings[name].Mix)

		s.pre.CopyFrom(buf)
		f.Render(tick, buf)

		if mix >= 1.0 {
			continue
		}
		left, right := buf.Channel(audiobuf.Left), buf.Channel(audiobuf.Right)
		preLeft, preRight := s.pre.Channel(audiobuf.Left), s.pre.Channel(audiobuf.Right)
		for i := range left {
			left[i] = preLeft[i]*(1-mix) + left[i]*mix
			right[i] = preRight[i]*(1-mix) + right[i]*mix
		}
	}
}
