package domain

// PublishTarget identifies the registry slot being published.
// Immutable once read from the package manifest.
type PublishTarget struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Spec returns the name@version form npm uses on the command line.
func (t PublishTarget) Spec() string {
	return t.Name + "@" + t.Version
}

// Valid reports whether both identity fields are populated.
func (t PublishTarget) Valid() bool {
	return t.Name != "" && t.Version != ""
}

// Classification is the category assigned to one failed publish attempt.
type Classification string

const (
	// ClassAlreadyPublished means the registry already holds this exact
	// version; folded into the success path.
	ClassAlreadyPublished Classification = "already_published"
	// ClassRetryable means a known-transient failure worth backing off on.
	ClassRetryable Classification = "retryable"
	// ClassFatal means a permanent rejection; retrying cannot help.
	ClassFatal Classification = "fatal"
)

// AttemptOutcome is the result of one publish invocation. Invocation
// errors (missing binary, killed process) are folded into CombinedOutput
// so the classifier sees them as diagnostic text.
type AttemptOutcome struct {
	ExitCode       int
	CombinedOutput string
}

// OK reports whether the attempt succeeded.
func (o AttemptOutcome) OK() bool {
	return o.ExitCode == 0
}
