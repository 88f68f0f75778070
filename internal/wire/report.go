package wire

import (
	"encoding/binary"

	"github.com/google/uuid"

	"outcomebook/internal/common"
)

// Report is the response frame sent back to a client: either an
// execution (one per trade), a plain ack (sent last for every accepted
// order, after its executions, and for a successful cancel), or an
// error report (the engine's rejection surfaced over the
// wire).
type Report struct {
	RequestID uuid.UUID
	Type      ReportType

	// Populated when Type == ReportExecution.
	TradeID      uint64
	TakerOrderID common.OrderID
	MakerOrderID common.OrderID
	Price        common.Price
	Quantity     common.Quantity
	TakerSide    common.Side
	Timestamp    uint64

	// Populated when Type == ReportError.
	ErrMessage string
}

// reportFixedLen is RequestID(16) + Type(1) + TradeID(8) +
// TakerOrderID(8) + MakerOrderID(8) + Price(8) + Quantity(8) +
// TakerSide(1) + Timestamp(8) + ErrLen(2).
const reportFixedLen = 16 + 1 + 8 + 8 + 8 + 8 + 8 + 1 + 8 + 2

func (r Report) Serialize() []byte {
	buf := make([]byte, reportFixedLen+len(r.ErrMessage))
	copy(buf[0:16], r.RequestID[:])
	buf[16] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[17:25], r.TradeID)
	binary.BigEndian.PutUint64(buf[25:33], uint64(r.TakerOrderID))
	binary.BigEndian.PutUint64(buf[33:41], uint64(r.MakerOrderID))
	binary.BigEndian.PutUint64(buf[41:49], uint64(r.Price))
	binary.BigEndian.PutUint64(buf[49:57], uint64(r.Quantity))
	buf[57] = byte(r.TakerSide)
	binary.BigEndian.PutUint64(buf[58:66], r.Timestamp)
	binary.BigEndian.PutUint16(buf[66:68], uint16(len(r.ErrMessage)))
	copy(buf[68:], r.ErrMessage)
	return buf
}

func ParseReport(buf []byte) (Report, error) {
	if len(buf) < reportFixedLen {
		return Report{}, ErrMessageTooShort
	}
	var r Report
	copy(r.RequestID[:], buf[0:16])
	r.Type = ReportType(buf[16])
	r.TradeID = binary.BigEndian.Uint64(buf[17:25])
	r.TakerOrderID = common.OrderID(binary.BigEndian.Uint64(buf[25:33]))
	r.MakerOrderID = common.OrderID(binary.BigEndian.Uint64(buf[33:41]))
	r.Price = common.Price(binary.BigEndian.Uint64(buf[41:49]))
	r.Quantity = common.Quantity(binary.BigEndian.Uint64(buf[49:57]))
	r.TakerSide = common.Side(buf[57])
	r.Timestamp = binary.BigEndian.Uint64(buf[58:66])
	errLen := int(binary.BigEndian.Uint16(buf[66:68]))
	if len(buf) < reportFixedLen+errLen {
		return Report{}, ErrMessageTooShort
	}
	r.ErrMessage = string(buf[reportFixedLen : reportFixedLen+errLen])
	return r, nil
}

// ExecutionReport builds a Report for one emitted trade.
func ExecutionReport(requestID uuid.UUID, t common.Trade) Report {
	return Report{
		RequestID:    requestID,
		Type:         ReportExecution,
		TradeID:      t.ID,
		TakerOrderID: t.TakerOrderID,
		MakerOrderID: t.MakerOrderID,
		Price:        t.Price,
		Quantity:     t.Quantity,
		TakerSide:    t.TakerSide,
		Timestamp:    t.Timestamp,
	}
}

// ErrorReport builds a Report carrying a rejection.
func ErrorReport(requestID uuid.UUID, err error) Report {
	return Report{RequestID: requestID, Type: ReportError, ErrMessage: err.Error()}
}

// AckReport builds a plain success acknowledgement (e.g. a cancel with
// no error, or an order whose residual rested with zero trades).
func AckReport(requestID uuid.UUID) Report {
	return Report{RequestID: requestID, Type: ReportAck}
}
