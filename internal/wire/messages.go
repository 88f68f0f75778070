// Package wire implements the binary TCP protocol the demo host speaks
// with cmd/outcomebookctl. It is one binding over the core engine, not
// the core's interface: no wire protocol is fixed, and a different host
// could speak a different one over the same engine.Book.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"

	"outcomebook/internal/common"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for its declared fields")
	ErrFieldTooLong       = errors.New("field exceeds 255 bytes, the wire length prefix's range")
)

// maxFieldLen is the largest MarketID/OutcomeID/UserID the wire format
// can carry: these fields are framed with a single length-prefix byte.
const maxFieldLen = 255

// MessageType identifies the payload that follows the 2-byte header.
type MessageType uint16

const (
	TypeNewOrder MessageType = iota
	TypeCancelOrder
	TypeDepthRequest
)

// ReportType identifies a Report's payload.
type ReportType uint8

const (
	ReportExecution ReportType = iota
	ReportAck
	ReportError
)

const headerLen = 2

// ParseMessage dispatches on the 2-byte big-endian type header and
// parses the remainder of msg into the concrete request type.
func ParseMessage(msg []byte) (any, error) {
	if len(msg) < headerLen {
		return nil, ErrMessageTooShort
	}
	typ := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[headerLen:]
	switch typ {
	case TypeNewOrder:
		return parseNewOrder(body)
	case TypeCancelOrder:
		return parseCancelOrder(body)
	case TypeDepthRequest:
		return parseDepthRequest(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

// NewOrderMessage is the wire form of a process_limit_order command.
// RequestID is an opaque client-chosen correlation token (not the order
// ID, which the caller also supplies independently) so the client can
// match an async Report back to the request that caused it.
type NewOrderMessage struct {
	RequestID uuid.UUID
	OrderID   common.OrderID
	Side      common.Side
	Price     common.Price
	Quantity  common.Quantity
	Timestamp uint64
	MarketID  string
	OutcomeID string
	UserID    string
}

// newOrderFixedLen is RequestID(16) + OrderID(8) + Side(1) + Price(8) +
// Quantity(8) + Timestamp(8) + 3 length-prefix bytes.
const newOrderFixedLen = 16 + 8 + 1 + 8 + 8 + 8 + 3

func (m NewOrderMessage) Serialize() ([]byte, error) {
	if len(m.MarketID) > maxFieldLen || len(m.OutcomeID) > maxFieldLen || len(m.UserID) > maxFieldLen {
		return nil, ErrFieldTooLong
	}
	total := headerLen + newOrderFixedLen + len(m.MarketID) + len(m.OutcomeID) + len(m.UserID)
	buf := make([]byte, total)
	binary.BigEndian.PutUint16(buf[0:2], uint16(TypeNewOrder))

	p := buf[headerLen:]
	copy(p[0:16], m.RequestID[:])
	binary.BigEndian.PutUint64(p[16:24], uint64(m.OrderID))
	p[24] = byte(m.Side)
	binary.BigEndian.PutUint64(p[25:33], uint64(m.Price))
	binary.BigEndian.PutUint64(p[33:41], uint64(m.Quantity))
	binary.BigEndian.PutUint64(p[41:49], m.Timestamp)
	p[49] = byte(len(m.MarketID))
	p[50] = byte(len(m.OutcomeID))
	p[51] = byte(len(m.UserID))

	off := 52
	off += copy(p[off:], m.MarketID)
	off += copy(p[off:], m.OutcomeID)
	copy(p[off:], m.UserID)
	return buf, nil
}

func parseNewOrder(body []byte) (NewOrderMessage, error) {
	if len(body) < newOrderFixedLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	var m NewOrderMessage
	copy(m.RequestID[:], body[0:16])
	m.OrderID = common.OrderID(binary.BigEndian.Uint64(body[16:24]))
	m.Side = common.Side(body[24])
	m.Price = common.Price(binary.BigEndian.Uint64(body[25:33]))
	m.Quantity = common.Quantity(binary.BigEndian.Uint64(body[33:41]))
	m.Timestamp = binary.BigEndian.Uint64(body[41:49])

	marketLen := int(body[49])
	outcomeLen := int(body[50])
	userLen := int(body[51])

	want := 52 + marketLen + outcomeLen + userLen
	if len(body) < want {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	off := 52
	m.MarketID = string(body[off : off+marketLen])
	off += marketLen
	m.OutcomeID = string(body[off : off+outcomeLen])
	off += outcomeLen
	m.UserID = string(body[off : off+userLen])
	return m, nil
}

// Order converts the wire message into the engine's Order type.
func (m NewOrderMessage) Order() common.Order {
	return common.Order{
		ID:                m.OrderID,
		UserID:            m.UserID,
		MarketID:          m.MarketID,
		OutcomeID:         m.OutcomeID,
		Side:              m.Side,
		Price:             m.Price,
		OriginalQuantity:  m.Quantity,
		RemainingQuantity: m.Quantity,
		Timestamp:         m.Timestamp,
	}
}

// CancelOrderMessage is the wire form of a cancel_order command.
type CancelOrderMessage struct {
	RequestID uuid.UUID
	OrderID   common.OrderID
	MarketID  string
	OutcomeID string
}

const cancelFixedLen = 16 + 8 + 2

func (m CancelOrderMessage) Serialize() ([]byte, error) {
	if len(m.MarketID) > maxFieldLen || len(m.OutcomeID) > maxFieldLen {
		return nil, ErrFieldTooLong
	}
	total := headerLen + cancelFixedLen + len(m.MarketID) + len(m.OutcomeID)
	buf := make([]byte, total)
	binary.BigEndian.PutUint16(buf[0:2], uint16(TypeCancelOrder))

	p := buf[headerLen:]
	copy(p[0:16], m.RequestID[:])
	binary.BigEndian.PutUint64(p[16:24], uint64(m.OrderID))
	p[24] = byte(len(m.MarketID))
	p[25] = byte(len(m.OutcomeID))
	off := 26
	off += copy(p[off:], m.MarketID)
	copy(p[off:], m.OutcomeID)
	return buf, nil
}

func parseCancelOrder(body []byte) (CancelOrderMessage, error) {
	if len(body) < cancelFixedLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	var m CancelOrderMessage
	copy(m.RequestID[:], body[0:16])
	m.OrderID = common.OrderID(binary.BigEndian.Uint64(body[16:24]))
	marketLen := int(body[24])
	outcomeLen := int(body[25])
	want := 26 + marketLen + outcomeLen
	if len(body) < want {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	off := 26
	m.MarketID = string(body[off : off+marketLen])
	off += marketLen
	m.OutcomeID = string(body[off : off+outcomeLen])
	return m, nil
}

// DepthRequestMessage asks the host for the top-K levels of a book.
type DepthRequestMessage struct {
	RequestID uuid.UUID
	Depth     uint16
	MarketID  string
	OutcomeID string
}

const depthFixedLen = 16 + 2 + 2

func (m DepthRequestMessage) Serialize() ([]byte, error) {
	if len(m.MarketID) > maxFieldLen || len(m.OutcomeID) > maxFieldLen {
		return nil, ErrFieldTooLong
	}
	total := headerLen + depthFixedLen + len(m.MarketID) + len(m.OutcomeID)
	buf := make([]byte, total)
	binary.BigEndian.PutUint16(buf[0:2], uint16(TypeDepthRequest))

	p := buf[headerLen:]
	copy(p[0:16], m.RequestID[:])
	binary.BigEndian.PutUint16(p[16:18], m.Depth)
	p[18] = byte(len(m.MarketID))
	p[19] = byte(len(m.OutcomeID))
	off := 20
	off += copy(p[off:], m.MarketID)
	copy(p[off:], m.OutcomeID)
	return buf, nil
}

func parseDepthRequest(body []byte) (DepthRequestMessage, error) {
	if len(body) < depthFixedLen {
		return DepthRequestMessage{}, ErrMessageTooShort
	}
	var m DepthRequestMessage
	copy(m.RequestID[:], body[0:16])
	m.Depth = binary.BigEndian.Uint16(body[16:18])
	marketLen := int(body[18])
	outcomeLen := int(body[19])
	want := 20 + marketLen + outcomeLen
	if len(body) < want {
		return DepthRequestMessage{}, ErrMessageTooShort
	}
	off := 20
	m.MarketID = string(body[off : off+marketLen])
	off += marketLen
	m.OutcomeID = string(body[off : off+outcomeLen])
	return m, nil
}
