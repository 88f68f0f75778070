package engine

import (
	"outcomebook/internal/book"
	"outcomebook/internal/common"
)

// ProcessResult is the outcome of a successful process_limit_order call:
// the trades it produced (possibly empty) and the order's final state.
type ProcessResult struct {
	Trades []common.Trade
	Order  common.Order
}

// ProcessLimitOrder validates, matches and (if a residual remains)
// rests an incoming limit order.
func (b *Book) ProcessLimitOrder(in common.Order) (ProcessResult, error) {
	if err := b.validate(in); err != nil {
		return ProcessResult{}, err
	}

	taker := in
	taker.Status = common.Open

	// Register the taker in the order index immediately: every accepted
	// order must be findable via GetOrderStatus even if it fills
	// completely and never rests.
	meta := &OrderMetadata{
		Side:      taker.Side,
		Price:     taker.Price,
		Status:    taker.Status,
		Remaining: taker.RemainingQuantity,
	}
	b.index[taker.ID] = meta

	trades := b.match(&taker)

	if taker.RemainingQuantity > 0 {
		b.insertResidual(&taker)
	}

	switch {
	case taker.RemainingQuantity == 0:
		taker.Status = common.Filled
	case taker.RemainingQuantity < taker.OriginalQuantity:
		taker.Status = common.PartiallyFilled
	default:
		taker.Status = common.Open
	}
	meta.Status = taker.Status
	meta.Remaining = taker.RemainingQuantity
	meta.Price = taker.Price

	b.TotalTrades += uint64(len(trades))
	for _, t := range trades {
		b.TotalVolume += uint64(t.Quantity)
	}

	return ProcessResult{Trades: trades, Order: taker}, nil
}

func (b *Book) validate(o common.Order) error {
	if o.Price == 0 {
		return common.ErrBadPrice()
	}
	if o.RemainingQuantity == 0 {
		return common.ErrBadQuantity()
	}
	if o.MarketID != b.MarketID || o.OutcomeID != b.OutcomeID {
		return common.ErrMismatchedMarket(o.ID)
	}
	if _, exists := b.index[o.ID]; exists {
		return common.ErrDuplicateOrder(o.ID)
	}
	return nil
}

// crosses reports whether a resting price at the opposite best level
// crosses against the taker's side and limit price.
func crosses(side common.Side, takerPrice, restingPrice common.Price) bool {
	if side == common.Buy {
		return restingPrice <= takerPrice
	}
	return restingPrice >= takerPrice
}

// match consumes the opposite side of the book in price-time priority
// until the taker is filled, a same-user maker is encountered (self-
// trade halt), or no more crossing liquidity remains.
func (b *Book) match(taker *common.Order) []common.Trade {
	var trades []common.Trade
	opposite := b.oppositeLevelsFor(taker.Side)

	for taker.RemainingQuantity > 0 {
		lvl, ok := opposite.MinMut()
		if !ok || !crosses(taker.Side, taker.Price, lvl.Price) {
			break
		}

		selfTradeHalt := false
		for taker.RemainingQuantity > 0 && !lvl.Empty() {
			maker := lvl.Front()
			makerMeta := b.index[maker.ID]

			if makerMeta.Status == common.Cancelled {
				lvl.TotalQuantity -= maker.RemainingQuantity
				lvl.PopFront()
				continue
			}

			if maker.UserID == taker.UserID {
				selfTradeHalt = true
				break
			}

			fill := min(taker.RemainingQuantity, maker.RemainingQuantity)

			trade := common.Trade{
				ID:           b.nextTradeID,
				TakerOrderID: taker.ID,
				MakerOrderID: maker.ID,
				TakerUserID:  taker.UserID,
				MakerUserID:  maker.UserID,
				MarketID:     b.MarketID,
				OutcomeID:    b.OutcomeID,
				Price:        maker.Price,
				Quantity:     fill,
				Timestamp:    b.clock.NowMicro(),
				TakerSide:    taker.Side,
			}
			b.nextTradeID++
			trades = append(trades, trade)

			taker.RemainingQuantity -= fill
			maker.RemainingQuantity -= fill
			lvl.TotalQuantity -= fill

			if maker.RemainingQuantity == 0 {
				maker.Status = common.Filled
			} else {
				maker.Status = common.PartiallyFilled
			}
			makerMeta.Status = maker.Status
			makerMeta.Remaining = maker.RemainingQuantity

			if maker.RemainingQuantity == 0 {
				lvl.PopFront()
			}
		}

		book.DropIfEmpty(opposite, lvl)

		if selfTradeHalt {
			break
		}
	}

	return trades
}

// insertResidual rests the order's remaining quantity at (side, price),
// creating the level if it doesn't yet exist. The order index entry is
// updated by ProcessLimitOrder, not here.
func (b *Book) insertResidual(o *common.Order) {
	levels := b.levelsFor(o.Side)
	lvl := book.GetOrCreate(levels, o.Price)
	lvl.Append(o)
}
