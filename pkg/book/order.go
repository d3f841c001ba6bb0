package book

import "fmt"

// MarketSide is the binary outcome a contract is written on.
type MarketSide uint8

const (
	Yes MarketSide = iota
	No
)

func (s MarketSide) String() string {
	switch s {
	case Yes:
		return "yes"
	case No:
		return "no"
	}
	return "unknown"
}

// ParseMarketSide parses "yes" or "no".
func ParseMarketSide(s string) (MarketSide, error) {
	switch s {
	case "yes":
		return Yes, nil
	case "no":
		return No, nil
	}
	return 0, fmt.Errorf("%w: invalid market side %q", ErrValidation, s)
}

// TradingSide is the direction of an order.
type TradingSide uint8

const (
	Buy TradingSide = iota
	Sell
)

func (s TradingSide) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// ParseTradingSide parses "buy" or "sell".
func ParseTradingSide(s string) (TradingSide, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: invalid trading side %q", ErrValidation, s)
}

// opposite flips buy to sell and back.
func (s TradingSide) opposite() TradingSide {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is a resting order on the normalized YES ladder.
//
// Both YES and NO orders rest on the same ladder: a NO order is stored at its
// YES-equivalent price with its trading side flipped. The original side and
// price are kept so market data can be projected back into NO terms.
type Order struct {
	ID            string
	ClientOrderID string

	MarketSide  MarketSide  // yes or no, as submitted
	TradingSide TradingSide // buy or sell, as submitted

	NormalizedSide TradingSide // after NO/YES conversion
	Price          int         // normalized price in cents, 1..99
	OriginalPrice  int         // price before conversion, 1..99

	Quantity  int64 // contracts at submission
	Remaining int64 // unfilled contracts, 0 <= Remaining <= Quantity

	Timestamp int64  // arrival time, unix millis
	Sequence  uint64 // process-wide admission order, assigned under the book write lock
}

// Normalize converts an incoming (market side, trading side, price) into its
// YES-ladder equivalent.
//
// YES orders pass through unchanged. For NO orders the trading side flips and
// the price maps to 100-P: buying NO at P is economically identical to selling
// YES at 100-P, so both outcomes share one ladder.
func Normalize(marketSide MarketSide, tradingSide TradingSide, price int) (TradingSide, int, error) {
	if price < MinPrice || price > MaxPrice {
		return 0, 0, fmt.Errorf("%w: price must be between %d and %d cents, got %d",
			ErrValidation, MinPrice, MaxPrice, price)
	}
	if marketSide == Yes {
		return tradingSide, price, nil
	}
	return tradingSide.opposite(), 100 - price, nil
}

// Price bounds for a binary contract, in cents. The unit payout is 100.
const (
	MinPrice = 1
	MaxPrice = 99
)

// newOrder validates a NewOrder command and builds the resting order.
// The sequence number is assigned later, at admission.
func newOrder(cmd NewOrder) (*Order, error) {
	if cmd.Price == 0 {
		return nil, fmt.Errorf("%w: price required for limit order", ErrValidation)
	}
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, cmd.Quantity)
	}
	normSide, normPrice, err := Normalize(cmd.MarketSide, cmd.TradingSide, cmd.Price)
	if err != nil {
		return nil, err
	}

	return &Order{
		ID:             cmd.OrderID,
		ClientOrderID:  cmd.ClientOrderID,
		MarketSide:     cmd.MarketSide,
		TradingSide:    cmd.TradingSide,
		NormalizedSide: normSide,
		Price:          normPrice,
		OriginalPrice:  cmd.Price,
		Quantity:       cmd.Quantity,
		Remaining:      cmd.Quantity,
		Timestamp:      cmd.Timestamp,
	}, nil
}

// withQuantity returns a copy with the quantity changed in place.
// Increasing adds the delta to the remaining quantity; decreasing caps the
// remaining quantity at the new total.
func (o *Order) withQuantity(qty int64) *Order {
	c := *o
	if qty > o.Quantity {
		c.Remaining = o.Remaining + (qty - o.Quantity)
	} else if o.Remaining > qty {
		c.Remaining = qty
	}
	c.Quantity = qty
	return &c
}

// Filled reports the executed quantity.
func (o *Order) Filled() int64 { return o.Quantity - o.Remaining }
