package watch

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Stats counts filesystem events seen by a Watcher. It mutates in place
// and implements observable.Mutable[*Stats], so a container holding a
// *Stats surfaces every increment to its subscribers without the pointer
// ever being replaced.
type Stats struct {
	mu       sync.Mutex
	creates  uint64
	writes   uint64
	removes  uint64
	renames  uint64
	onMutate func(old, new *Stats)
}

// OnMutate registers the in-place mutation hook. Only one hook is held at
// a time; the returned cancel detaches it.
func (s *Stats) OnMutate(fn func(old, new *Stats)) (cancel func()) {
	s.mu.Lock()
	s.onMutate = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.onMutate = nil
		s.mu.Unlock()
	}
}

// Creates returns the number of create events seen.
func (s *Stats) Creates() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// Writes returns the number of write events seen.
func (s *Stats) Writes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Removes returns the number of remove events seen.
func (s *Stats) Removes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}

// Renames returns the number of rename events seen.
func (s *Stats) Renames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renames
}

// Total returns the total number of counted events.
func (s *Stats) Total() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates + s.writes + s.removes + s.renames
}

// record counts one fsnotify event and reports the mutation with a
// pre-mutation snapshot as old and the live instance as new.
func (s *Stats) record(op fsnotify.Op) {
	s.mu.Lock()
	old := &Stats{
		creates: s.creates,
		writes:  s.writes,
		removes: s.removes,
		renames: s.renames,
	}
	switch {
	case op.Has(fsnotify.Create):
		s.creates++
	case op.Has(fsnotify.Write):
		s.writes++
	case op.Has(fsnotify.Remove):
		s.removes++
	case op.Has(fsnotify.Rename):
		s.renames++
	default:
		s.mu.Unlock()
		return
	}
	fn := s.onMutate
	s.mu.Unlock()

	if fn != nil {
		fn(old, s)
	}
}

// reset zeroes all counters without reporting a mutation.
func (s *Stats) reset() {
	s.mu.Lock()
	s.creates, s.writes, s.removes, s.renames = 0, 0, 0, 0
	s.mu.Unlock()
}
