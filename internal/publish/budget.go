package publish

import "time"

// Budget is the wall-clock allowance for one complete run. The deadline
// is set once at run start and never extended; every sleep and wait is
// clipped so the orchestrator never schedules past it.
type Budget struct {
	deadline time.Time
	now      func() time.Time
}

// NewBudget starts a budget of the given total duration.
func NewBudget(total time.Duration) *Budget {
	return newBudgetWithClock(total, time.Now)
}

func newBudgetWithClock(total time.Duration, now func() time.Time) *Budget {
	return &Budget{deadline: now().Add(total), now: now}
}

// Remaining returns the time left before the deadline, floored at zero.
func (b *Budget) Remaining() time.Duration {
	r := b.deadline.Sub(b.now())
	if r < 0 {
		return 0
	}
	return r
}

// Exhausted reports whether the deadline has passed.
func (b *Budget) Exhausted() bool {
	return b.Remaining() <= 0
}

// Clip bounds a wait duration to the remaining budget.
func (b *Budget) Clip(d time.Duration) time.Duration {
	if r := b.Remaining(); d > r {
		return r
	}
	return d
}
