package publish

import (
	"math/rand"
	"time"
)

// BackoffConfig defines retry delay behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxJitter    time.Duration
}

// DefaultBackoffConfig provides sensible defaults.
var DefaultBackoffConfig = BackoffConfig{
	InitialDelay: 5 * time.Second,
	MaxDelay:     60 * time.Second,
	MaxJitter:    3 * time.Second,
}

// Backoff produces successive retry delays: the pre-jitter base starts
// at InitialDelay and doubles per retryable failure up to MaxDelay.
// Jitter in [0, MaxJitter) is added on top of the base, so the applied
// delay can slightly exceed the cap but never drops below the base.
type Backoff struct {
	cfg    BackoffConfig
	next   time.Duration
	jitter func(max time.Duration) time.Duration
}

// NewBackoff creates a backoff starting at the configured initial delay.
func NewBackoff(cfg BackoffConfig) *Backoff {
	return &Backoff{cfg: cfg, next: cfg.InitialDelay, jitter: randomJitter}
}

// Next returns the delay to sleep before the next attempt and advances
// the doubling state.
func (b *Backoff) Next() time.Duration {
	base := b.next

	doubled := base * 2
	if doubled > b.cfg.MaxDelay {
		doubled = b.cfg.MaxDelay
	}
	b.next = doubled

	return base + b.jitter(b.cfg.MaxJitter)
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
