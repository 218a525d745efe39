package domain

// RunOutcome is the terminal state of one publish run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeFailure RunOutcome = "failure"
)

// RunReason narrows the outcome for logs and diagnostics. Exit status
// only distinguishes success from failure; the reason tells an operator
// whether a re-run could help.
type RunReason string

const (
	// ReasonSkipped: version was already visible at the first probe.
	ReasonSkipped RunReason = "skipped"
	// ReasonPublished: a publish attempt succeeded and visibility confirmed.
	ReasonPublished RunReason = "published"
	// ReasonAlreadyPublished: registry rejected the attempt as a duplicate,
	// which means the version is there.
	ReasonAlreadyPublished RunReason = "already_published"
	// ReasonConfigError: invalid budget, poll window, or artifact identity.
	// No attempts were made.
	ReasonConfigError RunReason = "config_error"
	// ReasonFatalError: permanent registry rejection, e.g. authorization.
	ReasonFatalError RunReason = "fatal_error"
	// ReasonTimedOut: budget exhausted while the failure was still
	// retryable, or visibility never confirmed. A re-run may succeed.
	ReasonTimedOut RunReason = "timed_out"
	// ReasonCanceled: interrupted by signal or context cancellation.
	ReasonCanceled RunReason = "canceled"
)

// RunResult is what the orchestrator returns when a run terminates.
type RunResult struct {
	Outcome  RunOutcome
	Reason   RunReason
	Attempts int
	Detail   string
}

// Success reports whether the run ended in the success outcome.
func (r RunResult) Success() bool {
	return r.Outcome == OutcomeSuccess
}
