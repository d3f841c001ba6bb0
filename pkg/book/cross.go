package book

import "fmt"

// CrossType classifies a crossed-market condition.
type CrossType uint8

const (
	// SelfCross: the incoming order's normalized price would satisfy a
	// resting order on the opposite side of the same ladder.
	SelfCross CrossType = iota + 1
	// ExternalCross: the best YES bid plus the implied NO bid exceed the
	// 100 cent unit payout, an arbitrage condition across the two outcomes.
	ExternalCross
)

func (t CrossType) String() string {
	switch t {
	case SelfCross:
		return "self_cross"
	case ExternalCross:
		return "external_cross"
	}
	return "none"
}

// CrossInfo is the transient classification produced when an order is
// admitted. Detection only notifies; a crossed order is still admitted and
// never matched or rejected here.
type CrossInfo struct {
	Ticker  string
	Crossed bool
	Type    CrossType
	Detail  string
}

// checkCross classifies the incoming order against the current top of book.
// Caller holds the write lock, so the view is consistent with the admission
// about to happen.
func (b *Book) checkCross(o *Order) CrossInfo {
	switch o.NormalizedSide {
	case Buy:
		if ask, ok := b.asks.bestPrice(); ok && o.Price >= ask {
			return CrossInfo{
				Ticker:  b.ticker,
				Crossed: true,
				Type:    SelfCross,
				Detail:  fmt.Sprintf("buy at %dc crosses resting ask at %dc", o.Price, ask),
			}
		}
	case Sell:
		if bid, ok := b.bids.bestPrice(); ok && o.Price <= bid {
			return CrossInfo{
				Ticker:  b.ticker,
				Crossed: true,
				Type:    SelfCross,
				Detail:  fmt.Sprintf("sell at %dc crosses resting bid at %dc", o.Price, bid),
			}
		}
	}
	return b.checkExternalCross()
}

// checkExternalCross looks for YES bid + implied NO bid > 100. NO bids rest as
// YES asks after conversion, so the implied NO bid is 100 minus the best ask
// level that contains a NO-originated order.
func (b *Book) checkExternalCross() CrossInfo {
	yesBid, ok := b.bids.bestPrice()
	if !ok {
		return CrossInfo{Ticker: b.ticker}
	}

	noAsk, found := 0, false
	b.asks.walk(func(lvl *PriceLevel) bool {
		for _, o := range lvl.Orders() {
			if o.MarketSide == No {
				noAsk, found = lvl.Price(), true
				return false
			}
		}
		return true
	})
	if !found {
		return CrossInfo{Ticker: b.ticker}
	}

	impliedNoBid := 100 - noAsk
	if yesBid+impliedNoBid > 100 {
		return CrossInfo{
			Ticker:  b.ticker,
			Crossed: true,
			Type:    ExternalCross,
			Detail: fmt.Sprintf("yes bid %dc + implied no bid %dc = %dc > 100c",
				yesBid, impliedNoBid, yesBid+impliedNoBid),
		}
	}
	return CrossInfo{Ticker: b.ticker}
}
