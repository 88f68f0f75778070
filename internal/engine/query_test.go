package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outcomebook/internal/common"
)

func TestSpreadUndefinedWhenOneSideEmpty(t *testing.T) {
	b := newTestBook()
	_, ok := b.Spread()
	assert.False(t, ok)

	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 100, 10, 1)))
	_, ok = b.Spread()
	assert.False(t, ok)
}

func TestSpreadWhenBothSidesPopulated(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 100, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "b", common.Sell, 110, 10, 2)))

	spread, ok := b.Spread()
	require.True(t, ok)
	assert.EqualValues(t, 10, spread)
}

func TestGetDepthOrdering(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 90, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "b", common.Buy, 100, 10, 2)))
	require.NoError(t, place(b, limitOrder(3, "c", common.Buy, 95, 10, 3)))

	require.NoError(t, place(b, limitOrder(4, "d", common.Sell, 150, 10, 4)))
	require.NoError(t, place(b, limitOrder(5, "e", common.Sell, 140, 10, 5)))
	require.NoError(t, place(b, limitOrder(6, "f", common.Sell, 145, 10, 6)))

	depth := b.GetDepth(2)
	require.Len(t, depth.Bids, 2)
	require.Len(t, depth.Asks, 2)

	assert.EqualValues(t, 100, depth.Bids[0].Price)
	assert.EqualValues(t, 95, depth.Bids[1].Price)

	assert.EqualValues(t, 140, depth.Asks[0].Price)
	assert.EqualValues(t, 145, depth.Asks[1].Price)
}

func TestActiveOrdersCount(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 100, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "b", common.Buy, 100, 5, 2)))
	assert.Equal(t, 2, b.ActiveOrders())

	require.NoError(t, b.CancelOrder(2))
	assert.Equal(t, 1, b.ActiveOrders())

	require.NoError(t, place(b, limitOrder(3, "c", common.Sell, 100, 10, 3)))
	assert.Equal(t, 0, b.ActiveOrders(), "order 1 fully filled drops out of active count")
}

// The book never ends a matching step crossed: the best bid always
// stays below the best ask.
func TestInvariantNoCrossedBook(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 100, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "b", common.Sell, 105, 10, 2)))

	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	assert.Less(t, bid, ask)
}

// Trade IDs are dense and strictly increasing from 1.
func TestInvariantTradeIDsDenseAndMonotone(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "s1", common.Sell, 100, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "s2", common.Sell, 100, 10, 2)))

	res, err := b.ProcessLimitOrder(limitOrder(3, "buyer", common.Buy, 100, 20, 3))
	require.NoError(t, err)
	require.Len(t, res.Trades, 2)
	assert.EqualValues(t, 1, res.Trades[0].ID)
	assert.EqualValues(t, 2, res.Trades[1].ID)
}

// Every emitted trade carries well-formed fields: maker price, a
// positive quantity, distinct counterparties, and the book's own
// market/outcome.
func TestInvariantTradeFieldsWellFormed(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "seller", common.Sell, 100, 10, 1)))

	res, err := b.ProcessLimitOrder(limitOrder(2, "buyer", common.Buy, 100, 10, 2))
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]

	assert.EqualValues(t, 100, tr.Price)
	assert.Greater(t, uint64(tr.Quantity), uint64(0))
	assert.NotEqual(t, tr.TakerUserID, tr.MakerUserID)
	assert.Equal(t, market, tr.MarketID)
	assert.Equal(t, outcome, tr.OutcomeID)
}
