package feed

import (
	"strings"
	"sync"
	"testing"

	"github.com/openpredict/bookd/pkg/book"
)

// captureHub records everything broadcast, keyed by channel.
type captureHub struct {
	mu       sync.Mutex
	messages map[string][]Message
}

func newCaptureHub() *captureHub {
	return &captureHub{messages: make(map[string][]Message)}
}

func (h *captureHub) BroadcastToChannel(channel string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages[channel] = append(h.messages[channel], data.(Message))
}

func (h *captureHub) byChannel(channel string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.messages[channel]
}

func setup(t *testing.T) (*book.Registry, *book.Book, *captureHub) {
	t.Helper()
	books := book.NewRegistry(nil)
	hub := newCaptureHub()
	books.AttachListener(NewBroadcaster(books, hub, 10, nil))
	b, err := books.Open("MKT")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return books, b, hub
}

func TestBroadcastOnAdd(t *testing.T) {
	_, b, hub := setup(t)

	res := b.ProcessNew(book.NewOrder{
		OrderID: "o1", MarketSide: book.No, TradingSide: book.Buy, Price: 30, Quantity: 150,
	})
	if _, ok := res.(book.Accepted); !ok {
		t.Fatalf("not accepted: %#v", res)
	}

	msgs := hub.byChannel("orderbook:MKT")
	if len(msgs) != 2 {
		t.Fatalf("got %d orderbook messages, want delta + snapshot", len(msgs))
	}

	delta, ok := msgs[0].Data.(DeltaData)
	if !ok || msgs[0].Type != "orderbook_delta" {
		t.Fatalf("first message not a delta: %+v", msgs[0])
	}
	// Deltas quote the order's original NO terms, not the normalized ladder.
	if delta.Side != "no" || delta.Kind != "bid" || delta.Price != 30 || delta.Delta != 150 {
		t.Errorf("delta = %+v, want no/bid/30/+150", delta)
	}

	if msgs[1].Type != "orderbook_snapshot" {
		t.Errorf("second message type = %s", msgs[1].Type)
	}
	snap := msgs[1].Data.(book.Snapshot)
	if len(snap.YesAsks) != 1 || snap.YesAsks[0].Price != 70 {
		t.Errorf("snapshot yes asks = %+v, want one level at 70", snap.YesAsks)
	}

	quotes := hub.byChannel("ticker:MKT")
	if len(quotes) != 1 {
		t.Fatalf("got %d quote messages, want 1", len(quotes))
	}
	q := quotes[0].Data.(TickerData)
	if q.YesAsk == nil || *q.YesAsk != 70 {
		t.Errorf("quote yes ask = %v, want 70", q.YesAsk)
	}
	if q.NoBid == nil || *q.NoBid != 30 {
		t.Errorf("quote no bid = %v, want 30", q.NoBid)
	}
}

func TestBroadcastOnCancel(t *testing.T) {
	_, b, hub := setup(t)
	b.ProcessNew(book.NewOrder{OrderID: "o1", MarketSide: book.Yes, TradingSide: book.Buy, Price: 65, Quantity: 100})
	b.ProcessCancel(book.CancelOrder{OrderID: "o1"})

	msgs := hub.byChannel("orderbook:MKT")
	// add delta, add snapshot, cancel delta, cancel snapshot
	if len(msgs) != 4 {
		t.Fatalf("got %d orderbook messages, want 4", len(msgs))
	}
	delta := msgs[2].Data.(DeltaData)
	if delta.Delta != -100 {
		t.Errorf("cancel delta = %d, want -100", delta.Delta)
	}
	snap := msgs[3].Data.(book.Snapshot)
	if len(snap.YesBids) != 0 {
		t.Errorf("snapshot still has bids after cancel: %+v", snap.YesBids)
	}
}

func TestBroadcastOnCross(t *testing.T) {
	_, b, hub := setup(t)
	b.ProcessNew(book.NewOrder{OrderID: "bid", MarketSide: book.Yes, TradingSide: book.Buy, Price: 65, Quantity: 100})
	// Sell through the bid: self-cross.
	b.ProcessNew(book.NewOrder{OrderID: "ask", MarketSide: book.Yes, TradingSide: book.Sell, Price: 60, Quantity: 50})

	msgs := hub.byChannel("cross:MKT")
	if len(msgs) != 1 {
		t.Fatalf("got %d cross messages, want 1", len(msgs))
	}
	data := msgs[0].Data.(CrossData)
	if data.Type != "self_cross" || !strings.Contains(data.Detail, "60") {
		t.Errorf("cross data = %+v", data)
	}
}

// TestSequenceMonotonic: envelope sequence numbers increase across channels.
func TestSequenceMonotonic(t *testing.T) {
	_, b, hub := setup(t)
	for i, id := range []string{"a", "b", "c"} {
		b.ProcessNew(book.NewOrder{OrderID: id, MarketSide: book.Yes, TradingSide: book.Buy, Price: 50 + i, Quantity: 10})
	}

	var last uint64
	for _, msg := range hub.byChannel("orderbook:MKT") {
		if msg.Sequence <= last {
			t.Fatalf("sequence %d not increasing past %d", msg.Sequence, last)
		}
		last = msg.Sequence
	}
}
