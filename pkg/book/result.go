package book

// Result is the sealed set of outcomes for a book operation. Every public
// operation returns exactly one of these; nothing panics or errors past the
// command boundary.
type Result interface {
	isResult()
}

// Accepted reports a new order resting on the book.
type Accepted struct {
	OrderID       string
	ClientOrderID string
}

// Rejected reports a command that did not change the book. Err wraps one of
// the sentinel errors (ErrValidation, ErrDuplicateOrder, ErrOrderNotFound) so
// callers can classify without string matching.
type Rejected struct {
	OrderID string
	Reason  string
	Err     error
}

// Canceled reports a removed order.
type Canceled struct {
	OrderID       string
	ClientOrderID string
}

// Modified reports an order changed in place or re-admitted at a new price.
type Modified struct {
	OrderID       string
	ClientOrderID string
}

func (Accepted) isResult() {}
func (Rejected) isResult() {}
func (Canceled) isResult() {}
func (Modified) isResult() {}

// reject builds a Rejected from a classified error.
func reject(orderID string, err error) Rejected {
	return Rejected{OrderID: orderID, Reason: err.Error(), Err: err}
}
