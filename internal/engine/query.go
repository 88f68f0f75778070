package engine

import (
	"outcomebook/internal/book"
	"outcomebook/internal/common"
)

// PriceLevelView is a read-only (price, total quantity) snapshot of one
// resting level, returned by depth and per-price queries.
type PriceLevelView struct {
	Price    common.Price
	Quantity common.Quantity
}

// DepthSnapshot is the top-k levels on each side, bids sorted highest
// price first, asks sorted lowest price first.
type DepthSnapshot struct {
	Bids []PriceLevelView
	Asks []PriceLevelView
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (common.Price, bool) {
	lvl, ok := b.bids.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (common.Price, bool) {
	lvl, ok := b.asks.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// Spread returns best_ask - best_bid. It is only defined when both
// sides are populated and the book isn't crossed; ok is false otherwise.
func (b *Book) Spread() (common.Price, bool) {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk || ask <= bid {
		return 0, false
	}
	return ask - bid, true
}

// BidQuantityAt returns the cached aggregate quantity resting at price
// on the bid side, or 0 if the level doesn't exist. Note the lazy-
// cancellation wart: this may over-report by a cancelled order's
// pre-cancel remaining until the matcher or cleanup next visits the
// level.
func (b *Book) BidQuantityAt(price common.Price) common.Quantity {
	return quantityAt(b.bids, price)
}

// AskQuantityAt is the ask-side counterpart of BidQuantityAt.
func (b *Book) AskQuantityAt(price common.Price) common.Quantity {
	return quantityAt(b.asks, price)
}

func quantityAt(levels *book.Levels, price common.Price) common.Quantity {
	lvl, ok := levels.Get(&book.PriceLevelQueue{Price: price})
	if !ok {
		return 0
	}
	return lvl.TotalQuantity
}

// BidLevels is the number of distinct resting bid prices.
func (b *Book) BidLevels() int { return b.bids.Len() }

// AskLevels is the number of distinct resting ask prices.
func (b *Book) AskLevels() int { return b.asks.Len() }

// ActiveOrders counts order-index entries that are still Open or
// PartiallyFilled.
func (b *Book) ActiveOrders() int {
	n := 0
	for _, meta := range b.index {
		if meta.Status == common.Open || meta.Status == common.PartiallyFilled {
			n++
		}
	}
	return n
}

// GetOrderStatus returns the order's current status from the index.
func (b *Book) GetOrderStatus(id common.OrderID) (common.OrderStatus, bool) {
	meta, ok := b.index[id]
	if !ok {
		return 0, false
	}
	return meta.Status, true
}

// GetOrderRemaining returns the order's current remaining quantity from
// the index.
func (b *Book) GetOrderRemaining(id common.OrderID) (common.Quantity, bool) {
	meta, ok := b.index[id]
	if !ok {
		return 0, false
	}
	return meta.Remaining, true
}

// GetDepth returns the top k levels per side, bids descending by price,
// asks ascending by price.
func (b *Book) GetDepth(k int) DepthSnapshot {
	return DepthSnapshot{
		Bids: topLevels(b.bids, k),
		Asks: topLevels(b.asks, k),
	}
}

func topLevels(levels *book.Levels, k int) []PriceLevelView {
	if k <= 0 {
		return nil
	}
	views := make([]PriceLevelView, 0, k)
	levels.Scan(func(lvl *book.PriceLevelQueue) bool {
		views = append(views, PriceLevelView{Price: lvl.Price, Quantity: lvl.TotalQuantity})
		return len(views) < k
	})
	return views
}
