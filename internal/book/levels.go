package book

import (
	"github.com/tidwall/btree"

	"outcomebook/internal/common"
)

// Levels is the sorted map from price to PriceLevelQueue for one side
// of a book. Bids are ordered with the highest price first; asks with
// the lowest price first, so that both BestBid/BestAsk and top-of-book
// traversal read off the Min() of the tree regardless of side.
type Levels = btree.BTreeG[*PriceLevelQueue]

// NewBidLevels builds a sorted map ordered highest-price-first.
func NewBidLevels() *Levels {
	return btree.NewBTreeG(func(a, b *PriceLevelQueue) bool {
		return a.Price > b.Price
	})
}

// NewAskLevels builds a sorted map ordered lowest-price-first.
func NewAskLevels() *Levels {
	return btree.NewBTreeG(func(a, b *PriceLevelQueue) bool {
		return a.Price < b.Price
	})
}

// GetOrCreate returns the level at price, creating and inserting an
// empty one if absent.
func GetOrCreate(levels *Levels, price common.Price) *PriceLevelQueue {
	if lvl, ok := levels.GetMut(&PriceLevelQueue{Price: price}); ok {
		return lvl
	}
	lvl := NewPriceLevelQueue(price)
	levels.Set(lvl)
	return lvl
}

// DropIfEmpty removes the level from the sorted map if it has no
// resident orders, so an empty level never survives past the end of a
// matching step.
func DropIfEmpty(levels *Levels, lvl *PriceLevelQueue) {
	if lvl.Empty() {
		levels.Delete(lvl)
	}
}
