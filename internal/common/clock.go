package common

import "time"

// Clock sources the microsecond-epoch timestamps the engine stamps
// trades with. Tests supply a deterministic Clock so replay is
// reproducible; production code uses SystemClock.
type Clock interface {
	NowMicro() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) NowMicro() uint64 {
	return uint64(time.Now().UnixMicro())
}

// FixedClock always returns the same instant. Useful for deterministic
// scenario tests that assert on trade timestamps.
type FixedClock uint64

func (c FixedClock) NowMicro() uint64 {
	return uint64(c)
}

// SequenceClock returns strictly increasing microsecond values starting
// at the value given to NewSequenceClock, advancing by one on every call. Useful for tests that only
// care about ordering, not absolute values.
type SequenceClock struct {
	next uint64
}

func NewSequenceClock(start uint64) *SequenceClock {
	return &SequenceClock{next: start}
}

func (c *SequenceClock) NowMicro() uint64 {
	v := c.next
	c.next++
	return v
}
