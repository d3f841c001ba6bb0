package book

// PriceLevel holds the orders resting at one normalized price, in arrival
// order. Earlier orders have time priority. All mutation happens under the
// owning book's write lock.
type PriceLevel struct {
	price  int
	orders []*Order
}

func newPriceLevel(price int) *PriceLevel {
	return &PriceLevel{price: price}
}

// Price is the normalized price of this level in cents.
func (l *PriceLevel) Price() int { return l.price }

// add appends an order at the tail of the queue.
func (l *PriceLevel) add(o *Order) {
	l.orders = append(l.orders, o)
}

// remove takes an order out of the queue, preserving the order of the rest.
func (l *PriceLevel) remove(orderID string) *Order {
	for i, o := range l.orders {
		if o.ID == orderID {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return o
		}
	}
	return nil
}

// find returns the resting order with the given id, or nil.
func (l *PriceLevel) find(orderID string) *Order {
	for _, o := range l.orders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

// replace swaps an order for an updated copy at the same queue position, so
// an in-place modify keeps its time priority.
func (l *PriceLevel) replace(o *Order) bool {
	for i, cur := range l.orders {
		if cur.ID == o.ID {
			l.orders[i] = o
			return true
		}
	}
	return false
}

// Len is the number of resting orders at this level.
func (l *PriceLevel) Len() int { return len(l.orders) }

// TotalQuantity sums the remaining quantity across the level.
func (l *PriceLevel) TotalQuantity() int64 {
	var total int64
	for _, o := range l.orders {
		total += o.Remaining
	}
	return total
}

// Orders returns a copy of the queue in priority order.
func (l *PriceLevel) Orders() []*Order {
	out := make([]*Order, len(l.orders))
	copy(out, l.orders)
	return out
}
