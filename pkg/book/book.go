package book

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openpredict/bookd/pkg/util"
)

// Book is the order book for one market ticker. It owns the two normalized
// ladders, the order index and a single reader/writer lock; markets are fully
// independent of each other.
//
// Every mutating operation holds the write lock for its whole logical
// sequence, including the cross-detection read of the opposite ladder, so no
// caller ever observes a half-applied change and no phantom cross can slip in
// between the check and the insert. Queries hold the read lock.
type Book struct {
	ticker string

	mu   sync.RWMutex
	bids *ladder // normalized buys, best = highest
	asks *ladder // normalized sells, best = lowest

	// index maps order id to its current ladder location. The ladder owns
	// the order; the index only points at it.
	index map[string]location

	listeners listenerSet
	seq       *Sequencer
	clock     util.Clock
	log       *zap.SugaredLogger
}

type location struct {
	side  TradingSide
	level *PriceLevel
}

// New creates an empty book for a ticker. A nil logger disables logging.
func New(ticker string, log *zap.SugaredLogger) *Book {
	if log == nil {
		log = nopLog
	}
	return &Book{
		ticker: ticker,
		bids:   newBidLadder(),
		asks:   newAskLadder(),
		index:  make(map[string]location),
		seq:    sequencer,
		clock:  util.RealClock{},
		log:    log,
	}
}

// Ticker returns the market this book belongs to.
func (b *Book) Ticker() string { return b.ticker }

// ProcessNew admits a resting order. Validation happens before any mutation;
// a crossed order is admitted anyway, the cross is only reported to listeners.
func (b *Book) ProcessNew(cmd NewOrder) Result {
	o, err := newOrder(cmd)
	if err != nil {
		return reject(cmd.OrderID, err)
	}
	if o.Timestamp == 0 {
		o.Timestamp = b.clock.Now().UnixMilli()
	}

	b.mu.Lock()
	res, events := b.admit(o)
	b.mu.Unlock()

	b.emit(events)
	return res
}

// admit inserts a validated order. Caller holds the write lock.
func (b *Book) admit(o *Order) (Result, []event) {
	if _, exists := b.index[o.ID]; exists {
		return reject(o.ID, fmt.Errorf("%w: order %s already exists", ErrDuplicateOrder, o.ID)), nil
	}

	var events []event

	// Cross detection is observability, not enforcement. The order goes on
	// the ladder either way.
	if info := b.checkCross(o); info.Crossed {
		events = append(events, func(l Listener) { l.OnCrossDetected(b.ticker, info) })
	}

	// Sequence is assigned here, under the write lock, so lock acquisition
	// order and sequence order always agree.
	o.Sequence = b.seq.Next()

	lvl := b.ladderFor(o.NormalizedSide).getOrCreate(o.Price)
	lvl.add(o)
	b.index[o.ID] = location{side: o.NormalizedSide, level: lvl}

	events = append(events, func(l Listener) { l.OnOrderAdded(b.ticker, o) })
	return Accepted{OrderID: o.ID, ClientOrderID: o.ClientOrderID}, events
}

// ProcessCancel removes a resting order and prunes its level if that removal
// left the level empty.
func (b *Book) ProcessCancel(cmd CancelOrder) Result {
	b.mu.Lock()
	res, events := b.cancel(cmd.OrderID)
	b.mu.Unlock()

	b.emit(events)
	return res
}

// cancel removes an order by id. Caller holds the write lock.
func (b *Book) cancel(orderID string) (Result, []event) {
	loc, ok := b.index[orderID]
	if !ok {
		return reject(orderID, fmt.Errorf("%w: order %s", ErrOrderNotFound, orderID)), nil
	}

	o := loc.level.remove(orderID)
	if o == nil {
		// Index and ladder disagree. Repair the index and reject.
		delete(b.index, orderID)
		b.log.Errorw("index_ladder_mismatch", "ticker", b.ticker, "order_id", orderID)
		return reject(orderID, fmt.Errorf("%w: order %s missing from price level", ErrOrderNotFound, orderID)), nil
	}

	delete(b.index, orderID)
	if loc.level.Len() == 0 {
		b.ladderFor(loc.side).prune(loc.level.Price())
	}

	events := []event{func(l Listener) { l.OnOrderCanceled(b.ticker, o) }}
	return Canceled{OrderID: o.ID, ClientOrderID: o.ClientOrderID}, events
}

// ProcessModify changes price and/or quantity of a resting order. When the
// normalized price and side are unchanged the order keeps its queue position;
// otherwise it is canceled and re-admitted through the new-order path with a
// fresh sequence number, losing time priority.
func (b *Book) ProcessModify(cmd ModifyOrder, marketSide MarketSide) Result {
	b.mu.Lock()
	res, events := b.modify(cmd, marketSide)
	b.mu.Unlock()

	b.emit(events)
	return res
}

func (b *Book) modify(cmd ModifyOrder, marketSide MarketSide) (Result, []event) {
	loc, ok := b.index[cmd.OrderID]
	if !ok {
		return reject(cmd.OrderID, fmt.Errorf("%w: order %s", ErrOrderNotFound, cmd.OrderID)), nil
	}
	existing := loc.level.find(cmd.OrderID)
	if existing == nil {
		delete(b.index, cmd.OrderID)
		b.log.Errorw("index_ladder_mismatch", "ticker", b.ticker, "order_id", cmd.OrderID)
		return reject(cmd.OrderID, fmt.Errorf("%w: order %s missing from price level", ErrOrderNotFound, cmd.OrderID)), nil
	}

	newPrice := existing.OriginalPrice
	if cmd.Price != nil {
		newPrice = *cmd.Price
	}
	newQty := existing.Quantity
	if cmd.Quantity != nil {
		newQty = *cmd.Quantity
	}

	// Validate before touching the ladder so a bad modify leaves no trace.
	if newQty <= 0 {
		return reject(cmd.OrderID, fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, newQty)), nil
	}
	normSide, normPrice, err := Normalize(marketSide, cmd.TradingSide, newPrice)
	if err != nil {
		return reject(cmd.OrderID, err), nil
	}

	// Same normalized price and side: update in place, keep time priority.
	if normPrice == existing.Price && normSide == existing.NormalizedSide {
		updated := existing.withQuantity(newQty)
		loc.level.replace(updated)
		events := []event{func(l Listener) { l.OnOrderModified(b.ticker, existing, updated) }}
		return Modified{OrderID: updated.ID, ClientOrderID: updated.ClientOrderID}, events
	}

	// Price or side changed: cancel and re-admit as a brand-new order.
	loc.level.remove(cmd.OrderID)
	delete(b.index, cmd.OrderID)
	if loc.level.Len() == 0 {
		b.ladderFor(loc.side).prune(loc.level.Price())
	}

	replacement, err := newOrder(NewOrder{
		OrderID:       cmd.OrderID,
		ClientOrderID: cmd.ClientOrderID,
		MarketSide:    marketSide,
		TradingSide:   cmd.TradingSide,
		Price:         newPrice,
		Quantity:      newQty,
		Symbol:        cmd.Symbol,
		Timestamp:     b.clock.Now().UnixMilli(),
	})
	if err != nil {
		// Unreachable: inputs were validated above.
		return reject(cmd.OrderID, err), nil
	}

	res, events := b.admit(replacement)
	if acc, ok := res.(Accepted); ok {
		return Modified{OrderID: acc.OrderID, ClientOrderID: acc.ClientOrderID}, events
	}
	return res, events
}

// BestBid returns the highest normalized buy price.
func (b *Book) BestBid() (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.bestPrice()
}

// BestAsk returns the lowest normalized sell price.
func (b *Book) BestAsk() (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.bestPrice()
}

// Order returns a copy of a resting order.
func (b *Book) Order(orderID string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	loc, ok := b.index[orderID]
	if !ok {
		return Order{}, false
	}
	o := loc.level.find(orderID)
	if o == nil {
		return Order{}, false
	}
	return *o, true
}

// DepthStats are aggregate book statistics, recomputed per query.
type DepthStats struct {
	BidLevels      int    `json:"bidLevels"`
	AskLevels      int    `json:"askLevels"`
	TotalBidOrders int    `json:"totalBidOrders"`
	TotalAskOrders int    `json:"totalAskOrders"`
	TotalBidVolume int64  `json:"totalBidVolume"`
	TotalAskVolume int64  `json:"totalAskVolume"`
	BestBid        *int   `json:"bestBid,omitempty"`
	BestAsk        *int   `json:"bestAsk,omitempty"`
}

// DepthStats computes fresh aggregates under the read lock, so the numbers
// are always consistent with one ladder state.
func (b *Book) DepthStats() DepthStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := DepthStats{
		BidLevels:      b.bids.depth(),
		AskLevels:      b.asks.depth(),
		TotalBidOrders: b.bids.orderCount(),
		TotalAskOrders: b.asks.orderCount(),
		TotalBidVolume: b.bids.volume(),
		TotalAskVolume: b.asks.volume(),
	}
	if p, ok := b.bids.bestPrice(); ok {
		stats.BestBid = &p
	}
	if p, ok := b.asks.bestPrice(); ok {
		stats.BestAsk = &p
	}
	return stats
}

func (b *Book) ladderFor(side TradingSide) *ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}
