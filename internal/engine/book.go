// Package engine implements the matching engine: the crossing
// algorithm, self-trade filter, trade emission, lazy cancellation and
// the query surface over a single (market, outcome) Book.
package engine

import (
	"outcomebook/internal/book"
	"outcomebook/internal/common"
)

// OrderMetadata is the order index's descriptive mirror of a resident
// order. It does not alias the order physically resting in a level
// queue; fills update both in lock-step inside the same matching step.
// Cancellation updates only this mirror, so a cancelled order's queued
// copy keeps its pre-cancel remaining until it is popped or cleaned up.
type OrderMetadata struct {
	Side      common.Side
	Price     common.Price
	Status    common.OrderStatus
	Remaining common.Quantity
}

// Book is a CLOB scoped to a single (market, outcome) pair. It is not
// safe for concurrent use by design: callers wrap it in a single
// exclusion primitive, or shard by (market, outcome).
type Book struct {
	MarketID  string
	OutcomeID string

	bids *book.Levels
	asks *book.Levels

	index map[common.OrderID]*OrderMetadata

	clock       common.Clock
	nextTradeID uint64

	TotalTrades uint64
	TotalVolume uint64
}

// Option configures a Book at construction time.
type Option func(*Book)

// WithClock overrides the default SystemClock, for deterministic tests.
func WithClock(c common.Clock) Option {
	return func(b *Book) { b.clock = c }
}

func NewBook(marketID, outcomeID string, opts ...Option) *Book {
	b := &Book{
		MarketID:    marketID,
		OutcomeID:   outcomeID,
		bids:        book.NewBidLevels(),
		asks:        book.NewAskLevels(),
		index:       make(map[common.OrderID]*OrderMetadata),
		clock:       common.SystemClock{},
		nextTradeID: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Book) levelsFor(side common.Side) *book.Levels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeLevelsFor(side common.Side) *book.Levels {
	if side == common.Buy {
		return b.asks
	}
	return b.bids
}
