package dashboard

import (
	"sync/atomic"
)

// Sequencer issues refresh sequence numbers and tracks the newest one that
// was applied. A refresh may only replace the view when its number is higher
// than everything applied before it.
type Sequencer struct {
	issued  atomic.Uint64
	applied atomic.Uint64
}

// NewSequencer creates a sequencer; the first number issued is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns a new, unique sequence number.
func (s *Sequencer) Next() uint64 {
	return s.issued.Add(1)
}

// Current returns the last issued number without incrementing.
func (s *Sequencer) Current() uint64 {
	return s.issued.Load()
}

// Applied returns the newest admitted number, 0 if none.
func (s *Sequencer) Applied() uint64 {
	return s.applied.Load()
}

// Admit records seq as applied if it is newer than every admitted number.
// It reports false for stale or repeated numbers.
func (s *Sequencer) Admit(seq uint64) bool {
	for {
		cur := s.applied.Load()
		if seq <= cur {
			return false
		}
		if s.applied.CompareAndSwap(cur, seq) {
			return true
		}
	}
}
