package engine

import (
	"outcomebook/internal/book"
	"outcomebook/internal/common"
)

// CancelOrder lazily cancels an order: the order index entry is marked
// Cancelled and its remaining quantity forced to zero, in O(1). The
// order is not removed from its level queue; it is elided the next
// time the matcher or CleanupCancelledOrder encounters it.
func (b *Book) CancelOrder(id common.OrderID) error {
	meta, ok := b.index[id]
	if !ok {
		return common.ErrNotFound(id)
	}
	switch meta.Status {
	case common.Cancelled:
		return common.ErrAlreadyCancelled(id)
	case common.Filled:
		return common.ErrAlreadyFilled(id)
	}
	meta.Status = common.Cancelled
	meta.Remaining = 0
	return nil
}

// CleanupCancelledOrder physically reclaims a cancelled order: it is
// spliced out of its level queue, the level's cached total is
// recomputed from the survivors, the level is dropped if it becomes
// empty, and the order index entry is removed. This is the only
// operation that removes entries from the order index.
func (b *Book) CleanupCancelledOrder(id common.OrderID) error {
	meta, ok := b.index[id]
	if !ok {
		return common.ErrNotFound(id)
	}
	if meta.Status != common.Cancelled {
		return nil
	}

	levels := b.levelsFor(meta.Side)
	if lvl, ok := levels.GetMut(&book.PriceLevelQueue{Price: meta.Price}); ok {
		lvl.Remove(id)
		if lvl.Empty() {
			levels.Delete(lvl)
		}
	}
	delete(b.index, id)
	return nil
}
