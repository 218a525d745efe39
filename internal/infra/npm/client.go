// Package npm shells out to the npm CLI for registry probes and publish
// attempts. The registry protocol itself stays npm's problem; this
// package only turns process results into values the orchestrator can
// reason about.
package npm

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"npmship/internal/core/domain"
)

// waitDelay bounds how long a canceled invocation may keep its output
// pipe open. npm's lifecycle scripts can leave orphaned children holding
// the pipe, which would otherwise make CombinedOutput block long past
// the context deadline.
const waitDelay = 2 * time.Second

// Client invokes npm against one registry from one package directory.
type Client struct {
	RegistryURL string
	Dir         string
	// Bin overrides the npm binary, mainly for tests. Empty means "npm".
	Bin string
}

// NewClient creates a client for the given registry and package directory.
func NewClient(registryURL, dir string) *Client {
	return &Client{RegistryURL: registryURL, Dir: dir}
}

func (c *Client) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "npm"
}

// Exists probes the registry for the exact version. Any invocation
// failure, including npm itself being missing, reads as "not visible":
// the probe is advisory and must be safe to call repeatedly.
func (c *Client) Exists(ctx context.Context, target domain.PublishTarget) bool {
	cmd := exec.CommandContext(ctx, c.bin(),
		"view", target.Spec(), "version", "--registry", c.RegistryURL)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay

	out, err := cmd.Output()
	if err != nil {
		return false
	}

	return strings.TrimSpace(string(out)) != ""
}

// Publish runs `npm publish` in the package directory and captures the
// combined output. Invocation errors are folded into the output text so
// the classifier treats them like any other diagnostic.
func (c *Client) Publish(ctx context.Context) domain.AttemptOutcome {
	cmd := exec.CommandContext(ctx, c.bin(), "publish", "--registry", c.RegistryURL)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay

	out, err := cmd.CombinedOutput()
	outcome := domain.AttemptOutcome{CombinedOutput: string(out)}

	if err == nil {
		return outcome
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
	} else {
		outcome.ExitCode = -1
	}

	if strings.TrimSpace(outcome.CombinedOutput) == "" {
		outcome.CombinedOutput = err.Error()
	}

	return outcome
}
