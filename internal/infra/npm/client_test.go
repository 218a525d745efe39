package npm

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"npmship/internal/core/domain"
)

var target = domain.PublishTarget{Name: "pkg", Version: "1.0.0"}

func TestExists_MissingBinary(t *testing.T) {
	c := NewClient("http://localhost:4873", t.TempDir())
	c.Bin = "definitely-not-a-real-binary"

	if c.Exists(context.Background(), target) {
		t.Error("expected missing binary to read as not visible")
	}
}

func TestExists_NonEmptyStdout(t *testing.T) {
	c := NewClient("http://localhost:4873", t.TempDir())
	// echo prints the arguments back, which stands in for npm view
	// returning a version string.
	c.Bin = "echo"

	if !c.Exists(context.Background(), target) {
		t.Error("expected non-empty stdout to read as visible")
	}
}

func TestPublish_MissingBinary(t *testing.T) {
	c := NewClient("http://localhost:4873", t.TempDir())
	c.Bin = "definitely-not-a-real-binary"

	outcome := c.Publish(context.Background())

	if outcome.OK() {
		t.Fatal("expected failed outcome for missing binary")
	}
	if outcome.CombinedOutput == "" {
		t.Error("expected invocation error folded into combined output")
	}
}

func TestPublish_TimeoutBoundsTheCall(t *testing.T) {
	// A killed npm can leave an orphaned child holding the output pipe;
	// WaitDelay must stop CombinedOutput from blocking until the child
	// exits on its own.
	dir := t.TempDir()
	bin := filepath.Join(dir, "fake-npm")
	script := "#!/bin/sh\nsleep 8 &\nwait\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	c := NewClient("http://localhost:4873", dir)
	c.Bin = bin

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome := c.Publish(ctx)
	elapsed := time.Since(start)

	if outcome.OK() {
		t.Fatal("expected failed outcome for killed publish")
	}
	if elapsed >= 5*time.Second {
		t.Errorf("publish blocked for %v past its deadline", elapsed)
	}
}

func TestPublish_Success(t *testing.T) {
	c := NewClient("http://localhost:4873", t.TempDir())
	c.Bin = "true"

	if outcome := c.Publish(context.Background()); !outcome.OK() {
		t.Errorf("expected success, got exit code %d", outcome.ExitCode)
	}
}
