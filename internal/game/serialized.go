package game

import "sync"

// Serialized guards an Engine so that commands from concurrent callers are
// applied one at a time.
type Serialized struct {
	mu     sync.Mutex
	engine Engine
}

// NewSerialized wraps engine.
func NewSerialized(engine Engine) *Serialized {
	return &Serialized{engine: engine}
}

// Dispatch applies cmd while holding the lock.
func (s *Serialized) Dispatch(cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Dispatch(cmd)
}

// Snapshot returns the current view.
func (s *Serialized) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Range returns the wrapped engine's bounds.
func (s *Serialized) Range() (min, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Range()
}
