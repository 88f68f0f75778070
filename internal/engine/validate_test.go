package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outcomebook/internal/common"
)

func kindOf(t *testing.T, err error) common.ErrorKind {
	t.Helper()
	var oe *common.OrderError
	require.True(t, errors.As(err, &oe))
	return oe.Kind
}

func TestInvalidPrice(t *testing.T) {
	b := newTestBook()
	_, err := b.ProcessLimitOrder(limitOrder(1, "a", common.Buy, 0, 10, 1))
	require.Error(t, err)
	assert.Equal(t, common.ErrInvalidPrice, kindOf(t, err))
}

func TestInvalidQuantity(t *testing.T) {
	b := newTestBook()
	_, err := b.ProcessLimitOrder(limitOrder(1, "a", common.Buy, 100, 0, 1))
	require.Error(t, err)
	assert.Equal(t, common.ErrInvalidQuantity, kindOf(t, err))
}

func TestMarketMismatch(t *testing.T) {
	b := newTestBook()
	o := limitOrder(1, "a", common.Buy, 100, 10, 1)
	o.OutcomeID = "NO"
	_, err := b.ProcessLimitOrder(o)
	require.Error(t, err)
	assert.Equal(t, common.ErrMarketMismatch, kindOf(t, err))
}

func TestDuplicateOrderID(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Buy, 100, 10, 1)))

	_, err := b.ProcessLimitOrder(limitOrder(1, "b", common.Sell, 100, 10, 2))
	require.Error(t, err)
	assert.Equal(t, common.ErrDuplicateOrderID, kindOf(t, err))
}

func TestDuplicateOrderIDAfterFillAndCancel(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Sell, 100, 10, 1)))
	require.NoError(t, place(b, limitOrder(2, "b", common.Buy, 100, 10, 2)))

	// Order 1 is now Filled; resubmitting its ID must still be rejected.
	_, err := b.ProcessLimitOrder(limitOrder(1, "c", common.Sell, 100, 10, 3))
	require.Error(t, err)
	assert.Equal(t, common.ErrDuplicateOrderID, kindOf(t, err))

	require.NoError(t, place(b, limitOrder(3, "d", common.Sell, 200, 10, 4)))
	require.NoError(t, b.CancelOrder(3))
	_, err = b.ProcessLimitOrder(limitOrder(3, "e", common.Sell, 200, 10, 5))
	require.Error(t, err)
	assert.Equal(t, common.ErrDuplicateOrderID, kindOf(t, err))
}

func TestRejectionLeavesBookUnchanged(t *testing.T) {
	b := newTestBook()
	require.NoError(t, place(b, limitOrder(1, "a", common.Sell, 100, 10, 1)))

	_, err := b.ProcessLimitOrder(limitOrder(2, "b", common.Buy, 0, 10, 2))
	require.Error(t, err)

	assert.EqualValues(t, 10, b.AskQuantityAt(100))
	assert.Equal(t, 1, b.AskLevels())
	_, ok := b.GetOrderStatus(2)
	assert.False(t, ok)
}
