package book

import "sync/atomic"

// Sequencer issues strictly increasing sequence numbers. Safe for concurrent
// use from every market's write path.
type Sequencer struct {
	next atomic.Uint64
}

// NewSequencer creates a sequencer that will issue start+1 first.
func NewSequencer(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// sequencer is the process-wide admission counter. Numbers are never reused
// and order admissions totally across all markets, independent of wall clocks.
var sequencer = NewSequencer(0)
