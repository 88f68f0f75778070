package common

import "fmt"

// Trade is an immutable fill record. Price is always the maker's
// resting price; price improvement accrues to the taker.
type Trade struct {
	ID uint64

	TakerOrderID OrderID
	MakerOrderID OrderID
	TakerUserID  string
	MakerUserID  string

	MarketID  string
	OutcomeID string

	Price     Price
	Quantity  Quantity
	Timestamp uint64

	TakerSide Side
}

func (t *Trade) String() string {
	return fmt.Sprintf(
		"Trade{id=%d market=%s/%s taker=%d(%s) maker=%d(%s) price=%d qty=%d side=%v ts=%d}",
		t.ID, t.MarketID, t.OutcomeID, t.TakerOrderID, t.TakerUserID,
		t.MakerOrderID, t.MakerUserID, t.Price, t.Quantity, t.TakerSide, t.Timestamp,
	)
}
