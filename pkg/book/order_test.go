package book

import (
	"errors"
	"testing"
)

// TestNormalize checks the YES/NO conversion rule: YES passes through, NO
// flips the trading side and maps price to 100-P.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		marketSide  MarketSide
		tradingSide TradingSide
		price       int
		wantSide    TradingSide
		wantPrice   int
		wantErr     bool
	}{
		{name: "yes buy passes through", marketSide: Yes, tradingSide: Buy, price: 65, wantSide: Buy, wantPrice: 65},
		{name: "yes sell passes through", marketSide: Yes, tradingSide: Sell, price: 66, wantSide: Sell, wantPrice: 66},
		{name: "no buy becomes yes sell", marketSide: No, tradingSide: Buy, price: 30, wantSide: Sell, wantPrice: 70},
		{name: "no sell becomes yes buy", marketSide: No, tradingSide: Sell, price: 40, wantSide: Buy, wantPrice: 60},
		{name: "price at lower bound", marketSide: No, tradingSide: Buy, price: 1, wantSide: Sell, wantPrice: 99},
		{name: "price at upper bound", marketSide: No, tradingSide: Buy, price: 99, wantSide: Sell, wantPrice: 1},
		{name: "price zero rejected", marketSide: Yes, tradingSide: Buy, price: 0, wantErr: true},
		{name: "price 100 rejected", marketSide: Yes, tradingSide: Buy, price: 100, wantErr: true},
		{name: "negative price rejected", marketSide: No, tradingSide: Sell, price: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, price, err := Normalize(tt.marketSide, tt.tradingSide, tt.price)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected validation error, got side=%v price=%d", side, price)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error not wrapped in ErrValidation: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if side != tt.wantSide || price != tt.wantPrice {
				t.Errorf("got (%v, %d), want (%v, %d)", side, price, tt.wantSide, tt.wantPrice)
			}
		})
	}
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  NewOrder
		ok   bool
	}{
		{
			name: "valid order",
			cmd:  NewOrder{OrderID: "o1", MarketSide: Yes, TradingSide: Buy, Price: 50, Quantity: 100},
			ok:   true,
		},
		{
			name: "missing price",
			cmd:  NewOrder{OrderID: "o2", MarketSide: Yes, TradingSide: Buy, Quantity: 100},
		},
		{
			name: "zero quantity",
			cmd:  NewOrder{OrderID: "o3", MarketSide: Yes, TradingSide: Buy, Price: 50},
		},
		{
			name: "negative quantity",
			cmd:  NewOrder{OrderID: "o4", MarketSide: Yes, TradingSide: Buy, Price: 50, Quantity: -1},
		},
		{
			name: "price out of range",
			cmd:  NewOrder{OrderID: "o5", MarketSide: Yes, TradingSide: Buy, Price: 101, Quantity: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := newOrder(tt.cmd)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if o.Remaining != o.Quantity {
					t.Errorf("remaining %d != quantity %d on fresh order", o.Remaining, o.Quantity)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error not wrapped in ErrValidation: %v", err)
			}
		})
	}
}

// TestWithQuantity covers the remaining-quantity arithmetic on in-place
// modifies: an increase adds the delta to remaining, a decrease caps it.
func TestWithQuantity(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int64
		remaining     int64
		newQty        int64
		wantRemaining int64
	}{
		{name: "increase adds delta", quantity: 100, remaining: 80, newQty: 150, wantRemaining: 130},
		{name: "decrease caps remaining", quantity: 100, remaining: 80, newQty: 50, wantRemaining: 50},
		{name: "decrease above remaining keeps it", quantity: 100, remaining: 40, newQty: 60, wantRemaining: 40},
		{name: "unchanged", quantity: 100, remaining: 100, newQty: 100, wantRemaining: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{ID: "o1", Quantity: tt.quantity, Remaining: tt.remaining}
			got := o.withQuantity(tt.newQty)
			if got.Quantity != tt.newQty {
				t.Errorf("quantity = %d, want %d", got.Quantity, tt.newQty)
			}
			if got.Remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", got.Remaining, tt.wantRemaining)
			}
			if o.Quantity != tt.quantity || o.Remaining != tt.remaining {
				t.Error("withQuantity mutated the original order")
			}
		})
	}
}

func TestParseSides(t *testing.T) {
	if _, err := ParseMarketSide("maybe"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for bad market side, got %v", err)
	}
	if _, err := ParseTradingSide("hold"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for bad trading side, got %v", err)
	}
	if s, _ := ParseMarketSide("no"); s != No {
		t.Errorf("ParseMarketSide(no) = %v", s)
	}
	if s, _ := ParseTradingSide("sell"); s != Sell {
		t.Errorf("ParseTradingSide(sell) = %v", s)
	}
}
