package publish

import (
	"strings"

	"npmship/internal/core/domain"
)

// classifyRule pairs a category with the substrings that indicate it.
// Rules are evaluated top to bottom and the first match wins, which makes
// the priority order explicit: already-published phrasing must win over
// the conflict codes it often ships with, and known-transient signals
// must win over the fatal fallback.
type classifyRule struct {
	class   domain.Classification
	needles []string
}

var classifyRules = []classifyRule{
	{domain.ClassAlreadyPublished, []string{
		"cannot publish over",
		"over the previously published",
		"previously published version",
		"epublishconflict",
	}},
	{domain.ClassRetryable, []string{
		// Registry conflict and processing races
		"e409",
		"409 conflict",
		"failed to save packument",
		"error saving packument",
		"not fully processed",
		// Network trouble
		"econnreset",
		"connection reset",
		"socket hang up",
		"etimedout",
		"timed out",
		"timeout",
		"eai_again",
		// Gateway / availability
		"e408",
		"e502",
		"e503",
		"e504",
		"bad gateway",
		"service unavailable",
		"gateway timeout",
	}},
	{domain.ClassFatal, []string{
		"e401",
		"401 unauthorized",
		"unauthorized",
		"e403",
		"403 forbidden",
		"forbidden",
		"e402",
		"payment required",
	}},
}

// Classify maps the combined diagnostic output of one failed attempt to
// a category. Total: anything unmatched is Fatal, a deliberate
// safety-over-availability default.
func Classify(output string) domain.Classification {
	s := strings.ToLower(output)

	for _, rule := range classifyRules {
		for _, needle := range rule.needles {
			if strings.Contains(s, needle) {
				return rule.class
			}
		}
	}

	return domain.ClassFatal
}
