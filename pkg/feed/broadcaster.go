// Package feed publishes book mutations to market-data consumers. Everything
// here hangs off the book's listener registry; the book itself never touches
// a wire format.
package feed

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/openpredict/bookd/pkg/book"
)

// ChannelBroadcaster is the sink the broadcaster renders into. The API
// server's WebSocket hub satisfies it.
type ChannelBroadcaster interface {
	BroadcastToChannel(channel string, data interface{})
}

// Message is the envelope for every outbound market-data message.
type Message struct {
	Type      string      `json:"type"`
	Sequence  uint64      `json:"sequence"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// DeltaData describes one price-level change in the order's original YES/NO
// terms, so subscribers see the book the way it was quoted.
type DeltaData struct {
	Ticker string `json:"ticker"`
	Side   string `json:"side"`  // "yes" or "no"
	Kind   string `json:"kind"`  // "bid" or "ask"
	Price  int    `json:"price"` // original price in cents
	Delta  int64  `json:"delta"` // signed remaining-quantity change
}

// TickerData is the top-of-book quote in both YES and NO terms.
type TickerData struct {
	Ticker string `json:"ticker"`
	YesBid *int   `json:"yesBid,omitempty"`
	YesAsk *int   `json:"yesAsk,omitempty"`
	NoBid  *int   `json:"noBid,omitempty"`
	NoAsk  *int   `json:"noAsk,omitempty"`
}

// CrossData reports a detected crossed-market condition.
type CrossData struct {
	Ticker string `json:"ticker"`
	Type   string `json:"crossType"`
	Detail string `json:"detail"`
}

// Broadcaster renders book events into WebSocket channel messages:
// an orderbook snapshot plus delta on "orderbook:{ticker}", a quote update on
// "ticker:{ticker}" and cross notices on "cross:{ticker}".
type Broadcaster struct {
	books *book.Registry
	hub   ChannelBroadcaster
	depth int
	seq   atomic.Uint64
	log   *zap.SugaredLogger

	book.NopListener
}

// NewBroadcaster wires a registry to a broadcast sink. depth caps snapshot
// levels per side; zero means all.
func NewBroadcaster(books *book.Registry, hub ChannelBroadcaster, depth int, log *zap.SugaredLogger) *Broadcaster {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Broadcaster{books: books, hub: hub, depth: depth, log: log}
}

func (br *Broadcaster) OnOrderAdded(ticker string, o *book.Order) {
	br.publishDelta(ticker, o, o.Remaining)
	br.publishBook(ticker)
}

func (br *Broadcaster) OnOrderCanceled(ticker string, o *book.Order) {
	br.publishDelta(ticker, o, -o.Remaining)
	br.publishBook(ticker)
}

func (br *Broadcaster) OnOrderModified(ticker string, old, updated *book.Order) {
	br.publishDelta(ticker, updated, updated.Remaining-old.Remaining)
	br.publishBook(ticker)
}

func (br *Broadcaster) OnCrossDetected(ticker string, info book.CrossInfo) {
	br.send("cross:"+ticker, Message{
		Type: "cross",
		Data: CrossData{Ticker: ticker, Type: info.Type.String(), Detail: info.Detail},
	})
}

// publishBook sends a fresh snapshot and quote for the ticker.
func (br *Broadcaster) publishBook(ticker string) {
	b, ok := br.books.Get(ticker)
	if !ok {
		return
	}
	snap := b.Snapshot(br.depth)

	br.send("orderbook:"+ticker, Message{Type: "orderbook_snapshot", Data: snap})
	br.send("ticker:"+ticker, Message{Type: "ticker", Data: quoteFromSnapshot(snap)})
}

func (br *Broadcaster) publishDelta(ticker string, o *book.Order, delta int64) {
	kind := "bid"
	if o.TradingSide == book.Sell {
		kind = "ask"
	}
	br.send("orderbook:"+ticker, Message{
		Type: "orderbook_delta",
		Data: DeltaData{
			Ticker: ticker,
			Side:   o.MarketSide.String(),
			Kind:   kind,
			Price:  o.OriginalPrice,
			Delta:  delta,
		},
	})
}

func (br *Broadcaster) send(channel string, msg Message) {
	msg.Sequence = br.seq.Add(1)
	msg.Timestamp = time.Now().UnixMilli()
	br.hub.BroadcastToChannel(channel, msg)
}

// quoteFromSnapshot reads the four best prices out of a snapshot.
func quoteFromSnapshot(snap book.Snapshot) TickerData {
	q := TickerData{Ticker: snap.Ticker}
	if len(snap.YesBids) > 0 {
		q.YesBid = &snap.YesBids[0].Price
	}
	if len(snap.YesAsks) > 0 {
		q.YesAsk = &snap.YesAsks[0].Price
	}
	if len(snap.NoBids) > 0 {
		q.NoBid = &snap.NoBids[0].Price
	}
	if len(snap.NoAsks) > 0 {
		q.NoAsk = &snap.NoAsks[0].Price
	}
	return q
}
