package book

// Command is the sealed set of order instructions a book consumes. These are
// produced upstream by the order-management translation layer; the book never
// parses wire formats itself.
type Command interface {
	isCommand()
}

// NewOrder asks the book to admit a resting limit order.
type NewOrder struct {
	OrderID       string
	ClientOrderID string

	MarketSide  MarketSide
	TradingSide TradingSide

	Price    int   // cents, 1..99
	Quantity int64 // contracts, > 0

	Symbol    string
	Timestamp int64 // creation time upstream, unix millis

	// IdempotencyToken travels with the command for upstream dedup. The book
	// itself dedups on OrderID.
	IdempotencyToken string
}

// CancelOrder removes a resting order.
type CancelOrder struct {
	OrderID       string
	ClientOrderID string
	TradingSide   TradingSide
	Symbol        string
}

// ModifyOrder changes the price and/or quantity of a resting order.
// Nil price or quantity means "keep the current value".
type ModifyOrder struct {
	OrderID       string
	ClientOrderID string
	TradingSide   TradingSide
	Price         *int
	Quantity      *int64
	Symbol        string
}

func (NewOrder) isCommand()    {}
func (CancelOrder) isCommand() {}
func (ModifyOrder) isCommand() {}
