package index

import "sync/atomic"

// Snapshot holds the active index behind a single atomic reference. Rebuilds
// construct a fresh Index and publish it with Swap; readers that already
// hold an instance keep reading the version they started with.
type Snapshot struct {
	current atomic.Pointer[Index]
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Get returns the active index, or false when none has been published yet.
func (s *Snapshot) Get() (*Index, bool) {
	idx := s.current.Load()
	return idx, idx != nil
}

// Swap publishes a new index as the active snapshot.
func (s *Snapshot) Swap(idx *Index) {
	s.current.Store(idx)
}
