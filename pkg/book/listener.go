package book

import (
	"sync"

	"go.uber.org/zap"
)

// Listener observes book mutations. Delivery is synchronous in the mutating
// goroutine, after the ladder change is committed and before the operation
// returns. Implementations must not call back into the same book's mutating
// operations from inside a callback.
type Listener interface {
	OnOrderAdded(ticker string, o *Order)
	OnOrderCanceled(ticker string, o *Order)
	OnOrderModified(ticker string, old, updated *Order)
	OnCrossDetected(ticker string, info CrossInfo)
}

// listenerSet is the fan-out registry. Membership changes concurrently with
// notification; a copy of the membership is taken per fan-out so neither
// blocks the other.
type listenerSet struct {
	mu  sync.RWMutex
	set []Listener
}

func (s *listenerSet) add(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = append(s.set, l)
}

func (s *listenerSet) remove(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.set {
		if cur == l {
			s.set = append(s.set[:i], s.set[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) snapshot() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listener, len(s.set))
	copy(out, s.set)
	return out
}

// event is a pending notification, recorded while the write lock is held and
// delivered after it is released.
type event func(Listener)

// emit fans events out to every listener. A panicking listener is logged and
// skipped; it never reaches the caller and never starves other listeners.
func (b *Book) emit(events []event) {
	if len(events) == 0 {
		return
	}
	listeners := b.listeners.snapshot()
	for _, ev := range events {
		for _, l := range listeners {
			b.deliver(ev, l)
		}
	}
}

func (b *Book) deliver(ev event, l Listener) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warnw("listener_panic", "ticker", b.ticker, "panic", r)
		}
	}()
	ev(l)
}

// AddListener registers an observer for this book's events.
func (b *Book) AddListener(l Listener) {
	b.listeners.add(l)
}

// RemoveListener unregisters an observer.
func (b *Book) RemoveListener(l Listener) {
	b.listeners.remove(l)
}

// NopListener implements Listener with no-ops, for embedding when only a
// subset of events matters.
type NopListener struct{}

func (NopListener) OnOrderAdded(string, *Order)            {}
func (NopListener) OnOrderCanceled(string, *Order)         {}
func (NopListener) OnOrderModified(string, *Order, *Order) {}
func (NopListener) OnCrossDetected(string, CrossInfo)      {}

var _ Listener = NopListener{}

// nopLog is used when a book is built without a logger.
var nopLog = zap.NewNop().Sugar()
