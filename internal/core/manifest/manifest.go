// Package manifest reads artifact identity from package.json.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"npmship/internal/core/domain"
)

// Manifest is the subset of package.json this tool cares about.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Private bool   `json:"private"`
}

// Read parses dir/package.json and returns the publish target. Missing
// name or version is an error: the orchestrator must never run with a
// partial identity.
func Read(dir string) (domain.PublishTarget, error) {
	path := filepath.Join(dir, "package.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PublishTarget{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m Manifest
	// Strip a UTF-8 BOM; some Windows editors add one.
	data = []byte(strings.TrimPrefix(string(data), "\ufeff"))
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.PublishTarget{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if m.Name == "" {
		return domain.PublishTarget{}, fmt.Errorf("%s: missing \"name\"", path)
	}
	if m.Version == "" {
		return domain.PublishTarget{}, fmt.Errorf("%s: missing \"version\"", path)
	}
	if m.Private {
		return domain.PublishTarget{}, fmt.Errorf("%s: package is marked private", path)
	}

	return domain.PublishTarget{Name: m.Name, Version: m.Version}, nil
}
