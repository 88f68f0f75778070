// Package book implements the dual price-indexed resting-order
// structure: a sorted map from price to a per-level FIFO queue, for
// both sides of a book.
package book

import "outcomebook/internal/common"

// PriceLevelQueue is an insertion-ordered sequence of orders resting at
// one price, plus a cached aggregate quantity. The queue is the sole
// owner of resident *common.Order records; the engine's order index
// holds only a descriptive mirror.
type PriceLevelQueue struct {
	Price         common.Price
	Orders        []*common.Order
	TotalQuantity common.Quantity
}

func NewPriceLevelQueue(price common.Price) *PriceLevelQueue {
	return &PriceLevelQueue{Price: price}
}

// Append adds an order to the back of the queue (time priority is
// acceptance order) and folds its remaining quantity into the total.
func (lvl *PriceLevelQueue) Append(o *common.Order) {
	lvl.Orders = append(lvl.Orders, o)
	lvl.TotalQuantity += o.RemainingQuantity
}

// Front returns the order at the head of the queue, or nil if empty.
func (lvl *PriceLevelQueue) Front() *common.Order {
	if len(lvl.Orders) == 0 {
		return nil
	}
	return lvl.Orders[0]
}

// PopFront physically removes the head order. The caller is
// responsible for any TotalQuantity adjustment the removal implies;
// PopFront itself doesn't know whether the order being removed is a
// filled maker (already subtracted during the fill) or a cancelled
// order skipped on encounter (whose remaining is still counted in the
// total, since cancellation zeroes only the order index mirror).
func (lvl *PriceLevelQueue) PopFront() {
	if len(lvl.Orders) == 0 {
		return
	}
	lvl.Orders = lvl.Orders[1:]
}

// Empty reports whether the level has no resident orders.
func (lvl *PriceLevelQueue) Empty() bool {
	return len(lvl.Orders) == 0
}

// Remove physically splices out the order with the given ID, wherever
// it sits in the queue, and recomputes TotalQuantity as the sum of
// remaining quantities of the survivors. Used only by explicit cleanup,
// which is the only path that removes a non-front order. Returns true
// if the order was found.
func (lvl *PriceLevelQueue) Remove(id common.OrderID) bool {
	for i, o := range lvl.Orders {
		if o.ID == id {
			lvl.Orders = append(lvl.Orders[:i:i], lvl.Orders[i+1:]...)
			lvl.recomputeTotal()
			return true
		}
	}
	return false
}

func (lvl *PriceLevelQueue) recomputeTotal() {
	var total common.Quantity
	for _, o := range lvl.Orders {
		total += o.RemainingQuantity
	}
	lvl.TotalQuantity = total
}
