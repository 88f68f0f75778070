package common

import "fmt"

// Order is a resting or incoming limit order. Side, Price and
// OriginalQuantity are immutable after creation; RemainingQuantity and
// Status are mutated in place by the engine during matching.
type Order struct {
	ID        OrderID
	UserID    string
	MarketID  string
	OutcomeID string

	Side              Side
	Price             Price
	OriginalQuantity  Quantity
	RemainingQuantity Quantity

	// Timestamp is a caller-supplied microsecond epoch value that
	// establishes time priority. It is not wall-clock arrival time.
	Timestamp uint64

	Status OrderStatus
}

func (o *Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d owner=%s market=%s/%s side=%v price=%d remaining=%d/%d status=%v ts=%d}",
		o.ID, o.UserID, o.MarketID, o.OutcomeID, o.Side, o.Price,
		o.RemainingQuantity, o.OriginalQuantity, o.Status, o.Timestamp,
	)
}
