package book

import "sort"

// Level is one aggregated price level in a snapshot, in the side's own price
// terms (NO levels carry NO prices, not their YES-ladder equivalents).
type Level struct {
	Price    int   `json:"price"`
	Quantity int64 `json:"quantity"`
	Orders   int   `json:"orders"`
}

// Snapshot is a four-sided view of the book. The normalized ladder is YES
// denominated, so YES bids and asks mirror the ladders directly; the NO sides
// are derived from the original market side each resting order arrived with:
// a NO bid rests as a converted YES ask and a NO ask as a converted YES bid,
// both at 100-P.
type Snapshot struct {
	Ticker    string  `json:"ticker"`
	YesBids   []Level `json:"yesBids"`
	YesAsks   []Level `json:"yesAsks"`
	NoBids    []Level `json:"noBids"`
	NoAsks    []Level `json:"noAsks"`
	Sequence  uint64  `json:"sequence"`  // admission watermark at capture
	Timestamp int64   `json:"timestamp"` // unix millis
}

// Snapshot captures up to depth levels per side under the read lock. A depth
// of zero or less means all levels.
func (b *Book) Snapshot(depth int) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Ticker:    b.ticker,
		YesBids:   collectLevels(b.bids, depth),
		YesAsks:   collectLevels(b.asks, depth),
		NoBids:    deriveNoSide(b.asks, Buy, depth),
		NoAsks:    deriveNoSide(b.bids, Sell, depth),
		Sequence:  b.seq.Current(),
		Timestamp: b.clock.Now().UnixMilli(),
	}
	return snap
}

// collectLevels aggregates a ladder side best-first.
func collectLevels(l *ladder, depth int) []Level {
	out := []Level{}
	l.walk(func(lvl *PriceLevel) bool {
		out = append(out, Level{
			Price:    lvl.Price(),
			Quantity: lvl.TotalQuantity(),
			Orders:   lvl.Len(),
		})
		return depth <= 0 || len(out) < depth
	})
	return out
}

// deriveNoSide projects NO-originated orders back into NO price terms.
// origTradingSide selects which original orders contribute: NO buys became
// normalized sells (they live in the ask ladder and form the NO bid side),
// NO sells became normalized buys (bid ladder, NO ask side).
func deriveNoSide(l *ladder, origTradingSide TradingSide, depth int) []Level {
	byPrice := make(map[int]*Level)
	l.walk(func(lvl *PriceLevel) bool {
		for _, o := range lvl.Orders() {
			if o.MarketSide != No || o.TradingSide != origTradingSide {
				continue
			}
			noPrice := 100 - lvl.Price()
			agg, ok := byPrice[noPrice]
			if !ok {
				agg = &Level{Price: noPrice}
				byPrice[noPrice] = agg
			}
			agg.Quantity += o.Remaining
			agg.Orders++
		}
		return true
	})

	out := make([]Level, 0, len(byPrice))
	for _, lvl := range byPrice {
		out = append(out, *lvl)
	}
	if origTradingSide == Buy {
		// NO bids: best is the highest NO price.
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	} else {
		// NO asks: best is the lowest NO price.
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	}
	if depth > 0 && len(out) > depth {
		out = out[:depth]
	}
	return out
}
