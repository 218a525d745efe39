// Package publish implements the publish orchestration state machine:
// existence probing, failure classification, backoff scheduling under a
// deadline, and post-publish visibility confirmation.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"npmship/internal/core/domain"
	"npmship/internal/telemetry/metrics"
)

// RegistryProbe checks whether a version is already visible in the
// registry. Probe invocation failures read as "not visible"; probing is
// advisory, never authoritative about real errors.
type RegistryProbe interface {
	Exists(ctx context.Context, target domain.PublishTarget) bool
}

// Publisher performs one publish attempt against the registry. The
// returned outcome folds invocation errors into CombinedOutput.
type Publisher interface {
	Publish(ctx context.Context) domain.AttemptOutcome
}

// Config holds orchestrator timing settings.
type Config struct {
	Budget           time.Duration
	PollWindow       time.Duration
	PollInterval     time.Duration
	ProgressInterval time.Duration
	Backoff          BackoffConfig
	// AttemptTimeout bounds a single publish invocation. Zero means
	// unbounded: the attempt runs for however long npm takes and the
	// deadline is only re-checked once it returns.
	AttemptTimeout time.Duration
}

// state of the publish loop. Terminal outcomes are returned directly
// rather than modeled as states.
type state int

const (
	stateProbe state = iota
	stateAttempt
	stateAwaitVisible
	stateBackoff
)

// Orchestrator drives one publish run for a single target.
type Orchestrator struct {
	cfg       Config
	target    domain.PublishTarget
	probe     RegistryProbe
	publisher Publisher
	log       *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator for one target.
func New(cfg Config, target domain.PublishTarget, probe RegistryProbe, publisher Publisher, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		target:    target,
		probe:     probe,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func (o *Orchestrator) validate() error {
	if !o.target.Valid() {
		return errors.New("publish target needs both name and version")
	}
	if o.cfg.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %v", o.cfg.Budget)
	}
	if o.cfg.PollWindow <= 0 {
		return fmt.Errorf("poll window must be positive, got %v", o.cfg.PollWindow)
	}
	return nil
}

// Run executes the state machine until a terminal result. It never
// returns an error: every path, including misconfiguration and budget
// exhaustion, terminates cleanly with a reported status.
func (o *Orchestrator) Run(ctx context.Context) domain.RunResult {
	if err := o.validate(); err != nil {
		o.log.Error("invalid publish configuration", "error", err)
		return domain.RunResult{
			Outcome: domain.OutcomeFailure,
			Reason:  domain.ReasonConfigError,
			Detail:  err.Error(),
		}
	}

	budget := newBudgetWithClock(o.cfg.Budget, o.now)
	backoff := NewBackoff(o.cfg.Backoff)
	waiter := &Waiter{
		probe:         o.probe,
		pollInterval:  o.cfg.PollInterval,
		progressEvery: o.cfg.ProgressInterval,
		log:           o.log,
		now:           o.now,
		sleep:         o.sleep,
	}

	o.log.Info("starting publish run",
		"package", o.target.Spec(),
		"budget", o.cfg.Budget,
		"poll_window", o.cfg.PollWindow)

	attempts := 0
	// Reason reported if the version turns up visible after an attempt.
	confirmed := domain.ReasonPublished

	st := stateProbe
	for {
		switch st {
		case stateProbe:
			if budget.Exhausted() {
				return o.timedOut(attempts)
			}
			if o.checkExists(ctx) {
				if attempts == 0 {
					o.log.Info("version already in registry, nothing to do",
						"package", o.target.Spec())
					return domain.RunResult{Outcome: domain.OutcomeSuccess, Reason: domain.ReasonSkipped}
				}
				o.log.Info("version visible in registry", "package", o.target.Spec(), "attempts", attempts)
				return domain.RunResult{Outcome: domain.OutcomeSuccess, Reason: confirmed, Attempts: attempts}
			}
			st = stateAttempt

		case stateAttempt:
			if budget.Exhausted() {
				return o.timedOut(attempts)
			}
			attempts++
			o.log.Info("publishing", "package", o.target.Spec(), "attempt", attempts)

			outcome := o.attempt(ctx)
			if outcome.OK() {
				metrics.PublishAttempts.WithLabelValues("success").Inc()
				o.log.Info("publish succeeded, confirming visibility", "attempt", attempts)
				confirmed = domain.ReasonPublished
				st = stateAwaitVisible
				continue
			}

			class := Classify(outcome.CombinedOutput)
			metrics.PublishAttempts.WithLabelValues(string(class)).Inc()
			o.log.Warn("publish attempt failed",
				"attempt", attempts,
				"exit_code", outcome.ExitCode,
				"classification", class,
				"output", tail(outcome.CombinedOutput, 6))

			switch class {
			case domain.ClassAlreadyPublished:
				confirmed = domain.ReasonAlreadyPublished
				st = stateAwaitVisible
			case domain.ClassRetryable:
				st = stateBackoff
			default:
				o.log.Error("fatal registry rejection, giving up", "attempt", attempts)
				return domain.RunResult{
					Outcome:  domain.OutcomeFailure,
					Reason:   domain.ReasonFatalError,
					Attempts: attempts,
					Detail:   tail(outcome.CombinedOutput, 6),
				}
			}

		case stateAwaitVisible:
			if budget.Exhausted() {
				return o.timedOut(attempts)
			}
			window := budget.Clip(o.cfg.PollWindow)
			if waiter.Wait(ctx, o.target, window) {
				o.log.Info("registry visibility confirmed", "package", o.target.Spec(), "attempts", attempts)
				return domain.RunResult{Outcome: domain.OutcomeSuccess, Reason: confirmed, Attempts: attempts}
			}
			if ctx.Err() != nil {
				return o.canceled(attempts)
			}
			if budget.Exhausted() {
				return o.timedOut(attempts)
			}
			// Publication may have landed with propagation lagging, so
			// this is a soft failure: back off and go around again.
			o.log.Warn("version not visible within poll window, retrying",
				"package", o.target.Spec(), "window", window)
			st = stateBackoff

		case stateBackoff:
			if budget.Exhausted() {
				return o.timedOut(attempts)
			}
			delay := budget.Clip(backoff.Next())
			metrics.RetriesTotal.Inc()
			o.log.Info("backing off before retry", "delay", delay.Round(time.Millisecond))
			if err := o.sleep(ctx, delay); err != nil {
				return o.canceled(attempts)
			}
			st = stateProbe
		}
	}
}

// attempt invokes the publisher once, applying the per-attempt timeout
// when one is configured.
func (o *Orchestrator) attempt(ctx context.Context) domain.AttemptOutcome {
	if o.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.AttemptTimeout)
		defer cancel()
	}

	start := o.now()
	outcome := o.publisher.Publish(ctx)
	metrics.AttemptDuration.Observe(o.now().Sub(start).Seconds())

	// A publish killed by the per-attempt bound only says "signal:
	// killed", which would classify as fatal. The bound expiring is a
	// local decision, not a registry verdict, so mark it as the timeout
	// it is and let the retry machinery handle it.
	if !outcome.OK() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		outcome.CombinedOutput = strings.TrimSpace(outcome.CombinedOutput +
			"\nattempt timed out after " + o.cfg.AttemptTimeout.String())
	}

	return outcome
}

func (o *Orchestrator) checkExists(ctx context.Context) bool {
	exists := o.probe.Exists(ctx, o.target)
	if exists {
		metrics.RegistryProbes.WithLabelValues("hit").Inc()
	} else {
		metrics.RegistryProbes.WithLabelValues("miss").Inc()
	}
	return exists
}

func (o *Orchestrator) timedOut(attempts int) domain.RunResult {
	o.log.Error("publish budget exhausted", "package", o.target.Spec(), "attempts", attempts)
	return domain.RunResult{
		Outcome:  domain.OutcomeFailure,
		Reason:   domain.ReasonTimedOut,
		Attempts: attempts,
	}
}

func (o *Orchestrator) canceled(attempts int) domain.RunResult {
	o.log.Error("publish run canceled", "package", o.target.Spec(), "attempts", attempts)
	return domain.RunResult{
		Outcome:  domain.OutcomeFailure,
		Reason:   domain.ReasonCanceled,
		Attempts: attempts,
	}
}

// tail returns the last n non-empty lines of diagnostic output, enough
// for logs without dumping the whole npm transcript.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			kept = append([]string{line}, kept...)
		}
	}
	return strings.Join(kept, "\n")
}
