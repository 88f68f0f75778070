package common

import "fmt"

// ErrorKind enumerates the core's error taxonomy. Every rejection the
// engine produces carries one of these.
type ErrorKind uint8

const (
	ErrDuplicateOrderID ErrorKind = iota
	ErrOrderNotFound
	ErrOrderAlreadyCancelled
	ErrOrderAlreadyFilled
	ErrInvalidPrice
	ErrInvalidQuantity
	ErrMarketMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrDuplicateOrderID:
		return "DuplicateOrderId"
	case ErrOrderNotFound:
		return "OrderNotFound"
	case ErrOrderAlreadyCancelled:
		return "OrderAlreadyCancelled"
	case ErrOrderAlreadyFilled:
		return "OrderAlreadyFilled"
	case ErrInvalidPrice:
		return "InvalidPrice"
	case ErrInvalidQuantity:
		return "InvalidQuantity"
	case ErrMarketMismatch:
		return "MarketMismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// OrderError is the error type returned by every command. It carries
// the offending order ID when one applies (InvalidPrice/InvalidQuantity
// are raised before an order is admitted and carry a zero ID).
type OrderError struct {
	Kind    ErrorKind
	OrderID OrderID
}

func (e *OrderError) Error() string {
	if e.OrderID == 0 {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: order %d", e.Kind, e.OrderID)
}

// Is lets callers write errors.Is(err, &common.OrderError{Kind:
// common.ErrOrderNotFound}) against the Kind alone, ignoring OrderID.
func (e *OrderError) Is(target error) bool {
	t, ok := target.(*OrderError)
	return ok && e.Kind == t.Kind
}

func newErr(kind ErrorKind, id OrderID) *OrderError {
	return &OrderError{Kind: kind, OrderID: id}
}

func ErrDuplicateOrder(id OrderID) error   { return newErr(ErrDuplicateOrderID, id) }
func ErrNotFound(id OrderID) error         { return newErr(ErrOrderNotFound, id) }
func ErrAlreadyCancelled(id OrderID) error { return newErr(ErrOrderAlreadyCancelled, id) }
func ErrAlreadyFilled(id OrderID) error    { return newErr(ErrOrderAlreadyFilled, id) }
func ErrBadPrice() error                   { return newErr(ErrInvalidPrice, 0) }
func ErrBadQuantity() error                { return newErr(ErrInvalidQuantity, 0) }
func ErrMismatchedMarket(id OrderID) error { return newErr(ErrMarketMismatch, id) }
