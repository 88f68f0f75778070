package wire

import (
	"encoding/binary"

	"github.com/google/uuid"

	"outcomebook/internal/common"
	"outcomebook/internal/engine"
)

// LevelView is one (price, quantity) pair in a DepthReport.
type LevelView struct {
	Price    common.Price
	Quantity common.Quantity
}

// DepthReport answers a DepthRequestMessage with the top levels of each
// side, best price first.
type DepthReport struct {
	RequestID uuid.UUID
	Bids      []LevelView
	Asks      []LevelView
}

// Serialize packs RequestID(16) + BidCount(2) + AskCount(2) followed by
// 16 bytes (Price(8)+Quantity(8)) per level, bids then asks.
func (r DepthReport) Serialize() []byte {
	total := 16 + 2 + 2 + 16*(len(r.Bids)+len(r.Asks))
	buf := make([]byte, total)
	copy(buf[0:16], r.RequestID[:])
	binary.BigEndian.PutUint16(buf[16:18], uint16(len(r.Bids)))
	binary.BigEndian.PutUint16(buf[18:20], uint16(len(r.Asks)))

	off := 20
	for _, lvl := range r.Bids {
		binary.BigEndian.PutUint64(buf[off:off+8], uint64(lvl.Price))
		binary.BigEndian.PutUint64(buf[off+8:off+16], uint64(lvl.Quantity))
		off += 16
	}
	for _, lvl := range r.Asks {
		binary.BigEndian.PutUint64(buf[off:off+8], uint64(lvl.Price))
		binary.BigEndian.PutUint64(buf[off+8:off+16], uint64(lvl.Quantity))
		off += 16
	}
	return buf
}

func ParseDepthReport(buf []byte) (DepthReport, error) {
	if len(buf) < 20 {
		return DepthReport{}, ErrMessageTooShort
	}
	var r DepthReport
	copy(r.RequestID[:], buf[0:16])
	bidCount := int(binary.BigEndian.Uint16(buf[16:18]))
	askCount := int(binary.BigEndian.Uint16(buf[18:20]))

	want := 20 + 16*(bidCount+askCount)
	if len(buf) < want {
		return DepthReport{}, ErrMessageTooShort
	}

	off := 20
	r.Bids = make([]LevelView, bidCount)
	for i := range r.Bids {
		r.Bids[i] = LevelView{
			Price:    common.Price(binary.BigEndian.Uint64(buf[off : off+8])),
			Quantity: common.Quantity(binary.BigEndian.Uint64(buf[off+8 : off+16])),
		}
		off += 16
	}
	r.Asks = make([]LevelView, askCount)
	for i := range r.Asks {
		r.Asks[i] = LevelView{
			Price:    common.Price(binary.BigEndian.Uint64(buf[off : off+8])),
			Quantity: common.Quantity(binary.BigEndian.Uint64(buf[off+8 : off+16])),
		}
		off += 16
	}
	return r, nil
}

// DepthReportFrom converts an engine.DepthSnapshot into its wire form.
func DepthReportFrom(requestID uuid.UUID, snap engine.DepthSnapshot) DepthReport {
	r := DepthReport{RequestID: requestID}
	for _, lvl := range snap.Bids {
		r.Bids = append(r.Bids, LevelView{Price: lvl.Price, Quantity: lvl.Quantity})
	}
	for _, lvl := range snap.Asks {
		r.Asks = append(r.Asks, LevelView{Price: lvl.Price, Quantity: lvl.Quantity})
	}
	return r
}
