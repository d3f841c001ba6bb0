package book

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry manages the per-ticker books. Each ticker owns exactly one Book
// with its own lock; the registry itself only guards membership.
type Registry struct {
	mu    sync.RWMutex
	books map[string]*Book

	// listeners attached here are registered on every book, current and
	// future. Used to wire market-data publication once for all tickers.
	listeners []Listener

	log *zap.SugaredLogger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = nopLog
	}
	return &Registry{
		books: make(map[string]*Book),
		log:   log,
	}
}

// AttachListener registers a listener on all open books and remembers it for
// books opened later.
func (r *Registry) AttachListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
	for _, b := range r.books {
		b.AddListener(l)
	}
}

// Open creates the book for a ticker. Opening the same ticker twice is an
// error.
func (r *Registry) Open(ticker string) (*Book, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[ticker]; exists {
		return nil, fmt.Errorf("book %s already open", ticker)
	}

	b := New(ticker, r.log)
	for _, l := range r.listeners {
		b.AddListener(l)
	}
	r.books[ticker] = b
	r.log.Infow("book_opened", "ticker", ticker)
	return b, nil
}

// Get returns the book for a ticker.
func (r *Registry) Get(ticker string) (*Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[ticker]
	return b, ok
}

// Close removes a ticker's book from the registry. Resting orders go with it.
func (r *Registry) Close(ticker string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.books[ticker]; !exists {
		return fmt.Errorf("book %s not open", ticker)
	}
	delete(r.books, ticker)
	r.log.Infow("book_closed", "ticker", ticker)
	return nil
}

// List returns the open tickers, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for t := range r.books {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of open books.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

// Exists reports whether a ticker has an open book.
func (r *Registry) Exists(ticker string) bool {
	_, ok := r.Get(ticker)
	return ok
}
