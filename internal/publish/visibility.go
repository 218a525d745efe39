package publish

import (
	"context"
	"log/slog"
	"time"

	"npmship/internal/core/domain"
)

// Waiter polls the registry until a just-published version becomes
// visible or a timeout elapses. Absence is reported as a boolean, never
// an error: the caller decides whether a miss is fatal.
type Waiter struct {
	probe         RegistryProbe
	pollInterval  time.Duration
	progressEvery time.Duration
	log           *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewWaiter creates a visibility waiter with real clocks.
func NewWaiter(probe RegistryProbe, pollInterval, progressEvery time.Duration, log *slog.Logger) *Waiter {
	return &Waiter{
		probe:         probe,
		pollInterval:  pollInterval,
		progressEvery: progressEvery,
		log:           log,
		now:           time.Now,
		sleep:         sleepContext,
	}
}

// Wait polls until the target is visible or timeout elapses. A progress
// line is emitted at a coarser interval than the poll so long waits stay
// observable without flooding output.
func (w *Waiter) Wait(ctx context.Context, target domain.PublishTarget, timeout time.Duration) bool {
	deadline := w.now().Add(timeout)
	lastProgress := w.now()

	for {
		if w.probe.Exists(ctx, target) {
			return true
		}

		remaining := deadline.Sub(w.now())
		if remaining <= 0 {
			return false
		}

		if w.now().Sub(lastProgress) >= w.progressEvery {
			w.log.Info("still waiting for registry visibility",
				"package", target.Spec(),
				"remaining", remaining.Round(time.Second))
			lastProgress = w.now()
		}

		d := w.pollInterval
		if d > remaining {
			d = remaining
		}
		if err := w.sleep(ctx, d); err != nil {
			return false
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
