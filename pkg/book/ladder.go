package book

import "container/heap"

// priceHeap keeps ladder prices ordered so the best price is an O(1) peek.
// Manipulate through container/heap (Init, Push, Remove).
type priceHeap struct {
	prices []int
	less   func(a, b int) bool
}

func (h *priceHeap) Len() int           { return len(h.prices) }
func (h *priceHeap) Less(i, j int) bool { return h.less(h.prices[i], h.prices[j]) }
func (h *priceHeap) Swap(i, j int)      { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x interface{}) {
	h.prices = append(h.prices, x.(int))
}

func (h *priceHeap) Pop() interface{} {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[:n-1]
	return x
}

// peek returns the best price without removing it.
func (h *priceHeap) peek() (int, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// remove drops one price from the heap. O(n) worst case, but the price domain
// is at most 99 levels.
func (h *priceHeap) remove(price int) {
	for i, p := range h.prices {
		if p == price {
			heap.Remove(h, i)
			return
		}
	}
}

// ladder is one side of the book: price -> FIFO level, with a heap tracking
// the best price. Bids order descending, asks ascending. The owning book's
// lock guards all access.
type ladder struct {
	levels map[int]*PriceLevel
	best   priceHeap
}

func newBidLadder() *ladder {
	return &ladder{
		levels: make(map[int]*PriceLevel),
		best:   priceHeap{less: func(a, b int) bool { return a > b }},
	}
}

func newAskLadder() *ladder {
	return &ladder{
		levels: make(map[int]*PriceLevel),
		best:   priceHeap{less: func(a, b int) bool { return a < b }},
	}
}

// getOrCreate returns the level at price, creating it if absent.
func (l *ladder) getOrCreate(price int) *PriceLevel {
	if lvl, ok := l.levels[price]; ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	l.levels[price] = lvl
	heap.Push(&l.best, price)
	return lvl
}

// prune removes an empty level. Levels must never linger empty.
func (l *ladder) prune(price int) {
	delete(l.levels, price)
	l.best.remove(price)
}

// bestPrice returns the top-of-book price for this side.
func (l *ladder) bestPrice() (int, bool) {
	return l.best.peek()
}

// bestLevel returns the top-of-book level, or nil when the side is empty.
func (l *ladder) bestLevel() *PriceLevel {
	p, ok := l.best.peek()
	if !ok {
		return nil
	}
	return l.levels[p]
}

// depth is the number of populated price levels.
func (l *ladder) depth() int { return len(l.levels) }

// walk visits levels from best to worst until fn returns false.
func (l *ladder) walk(fn func(*PriceLevel) bool) {
	for _, p := range l.sortedPrices() {
		if !fn(l.levels[p]) {
			return
		}
	}
}

// sortedPrices returns the populated prices from best to worst.
func (l *ladder) sortedPrices() []int {
	out := make([]int, len(l.best.prices))
	copy(out, l.best.prices)
	// insertion sort: at most 99 entries
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && l.best.less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// orderCount sums resting orders across all levels.
func (l *ladder) orderCount() int {
	var n int
	for _, lvl := range l.levels {
		n += lvl.Len()
	}
	return n
}

// volume sums remaining quantity across all levels.
func (l *ladder) volume() int64 {
	var v int64
	for _, lvl := range l.levels {
		v += lvl.TotalQuantity()
	}
	return v
}
