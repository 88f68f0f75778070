package wire_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outcomebook/internal/common"
	"outcomebook/internal/wire"
)

func TestNewOrderRoundTrip(t *testing.T) {
	want := wire.NewOrderMessage{
		RequestID: uuid.New(),
		OrderID:   42,
		Side:      common.Sell,
		Price:     5000,
		Quantity:  100,
		Timestamp: 1234,
		MarketID:  "market1",
		OutcomeID: "YES",
		UserID:    "alice",
	}

	raw, err := want.Serialize()
	require.NoError(t, err)
	parsed, err := wire.ParseMessage(raw)
	require.NoError(t, err)

	got, ok := parsed.(wire.NewOrderMessage)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCancelOrderRoundTrip(t *testing.T) {
	want := wire.CancelOrderMessage{
		RequestID: uuid.New(),
		OrderID:   7,
		MarketID:  "market1",
		OutcomeID: "NO",
	}

	raw, err := want.Serialize()
	require.NoError(t, err)
	parsed, err := wire.ParseMessage(raw)
	require.NoError(t, err)

	got, ok := parsed.(wire.CancelOrderMessage)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDepthRequestRoundTrip(t *testing.T) {
	want := wire.DepthRequestMessage{
		RequestID: uuid.New(),
		Depth:     10,
		MarketID:  "market1",
		OutcomeID: "YES",
	}

	raw, err := want.Serialize()
	require.NoError(t, err)
	parsed, err := wire.ParseMessage(raw)
	require.NoError(t, err)

	got, ok := parsed.(wire.DepthRequestMessage)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMessageTooShort(t *testing.T) {
	_, err := wire.ParseMessage([]byte{0})
	assert.ErrorIs(t, err, wire.ErrMessageTooShort)
}

func TestNewOrderRejectsOversizedField(t *testing.T) {
	msg := wire.NewOrderMessage{
		RequestID: uuid.New(),
		MarketID:  strings.Repeat("m", 256),
		OutcomeID: "YES",
		UserID:    "alice",
	}
	_, err := msg.Serialize()
	assert.ErrorIs(t, err, wire.ErrFieldTooLong)
}

func TestReportRoundTrip(t *testing.T) {
	trade := common.Trade{
		ID:           1,
		TakerOrderID: 2,
		MakerOrderID: 3,
		Price:        5000,
		Quantity:     100,
		Timestamp:    9999,
		TakerSide:    common.Buy,
	}
	reqID := uuid.New()
	want := wire.ExecutionReport(reqID, trade)

	got, err := wire.ParseReport(want.Serialize())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestErrorReportRoundTrip(t *testing.T) {
	reqID := uuid.New()
	want := wire.ErrorReport(reqID, common.ErrBadPrice())

	got, err := wire.ParseReport(want.Serialize())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
