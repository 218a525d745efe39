// Package version syncs the artifact version across an npm workspace:
// the root package.json plus every packages/*/package.json, including
// internal dependency specs that pin workspace siblings.
package version

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var depSections = map[string]bool{
	"dependencies":         true,
	"devDependencies":      true,
	"peerDependencies":     true,
	"optionalDependencies": true,
}

var (
	versionLineRe = regexp.MustCompile(`^(\s*"version"\s*:\s*")([^"]+)(".*)$`)
	sectionOpenRe = regexp.MustCompile(`^\s*"([^"]+)"\s*:\s*\{\s*$`)
	depLineRe     = regexp.MustCompile(`^(\s*")([^"]+)("\s*:\s*")([^"]*)(".*)$`)
)

// Normalize strips a single leading "v" when a digit follows, so both
// "0.1.7" and "v0.1.7" are accepted.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == 'v' && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

// Result reports what a sync did, or would do under dry run.
type Result struct {
	OldVersion string
	NewVersion string
	Changed    []string
}

// Sync rewrites the version field in every workspace manifest under
// root and updates internal dependency specs that referenced the old
// version. Files are edited line by line so formatting and key order
// survive untouched. With dryRun no file is written.
func Sync(root, newVersion string, dryRun bool) (*Result, error) {
	newVersion = Normalize(newVersion)
	if newVersion == "" {
		return nil, fmt.Errorf("version must not be empty")
	}

	rootPath := filepath.Join(root, "package.json")
	oldVersion, err := readVersion(rootPath)
	if err != nil {
		return nil, err
	}

	paths := []string{rootPath}
	members, err := filepath.Glob(filepath.Join(root, "packages", "*", "package.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	paths = append(paths, members...)

	names, err := collectNames(paths)
	if err != nil {
		return nil, err
	}

	res := &Result{OldVersion: oldVersion, NewVersion: newVersion}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		text := string(data)
		rewritten := rewriteManifest(text, names, oldVersion, newVersion)
		if rewritten == text {
			continue
		}

		res.Changed = append(res.Changed, path)
		if dryRun {
			continue
		}
		if err := os.WriteFile(path, []byte(rewritten), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return res, nil
}

func readVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if m.Version == "" {
		return "", fmt.Errorf("%s: missing \"version\"", path)
	}
	return m.Version, nil
}

func collectNames(paths []string) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var m struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if m.Name != "" {
			names[m.Name] = true
		}
	}
	return names, nil
}

// rewriteManifest edits one manifest's text: the first top-level version
// line gets the new version, and inside dependency sections any spec
// pinning a workspace sibling at the old version is rewritten.
func rewriteManifest(text string, names map[string]bool, oldVersion, newVersion string) string {
	lines := strings.Split(text, "\n")

	versionDone := false
	inDeps := false
	depth := 0

	for i, line := range lines {
		if !versionDone && !inDeps {
			if m := versionLineRe.FindStringSubmatch(line); m != nil {
				lines[i] = m[1] + newVersion + m[3]
				versionDone = true
				continue
			}
		}

		if inDeps {
			if strings.Contains(line, "{") {
				depth++
			}
			if strings.Contains(line, "}") {
				depth--
				if depth <= 0 {
					inDeps = false
				}
				continue
			}
			if m := depLineRe.FindStringSubmatch(line); m != nil && names[m[2]] {
				lines[i] = m[1] + m[2] + m[3] + rewriteSpec(m[4], oldVersion, newVersion) + m[5]
			}
			continue
		}

		if m := sectionOpenRe.FindStringSubmatch(line); m != nil && depSections[m[1]] {
			inDeps = true
			depth = 1
		}
	}

	return strings.Join(lines, "\n")
}

// rewriteSpec maps an internal dependency spec to the new version,
// preserving the range operator. Specs not anchored at the old version
// are left alone.
func rewriteSpec(spec, oldVersion, newVersion string) string {
	switch {
	case spec == oldVersion:
		return newVersion
	case strings.HasPrefix(spec, "^"+oldVersion):
		return "^" + newVersion + spec[len("^"+oldVersion):]
	case strings.HasPrefix(spec, "~"+oldVersion):
		return "~" + newVersion + spec[len("~"+oldVersion):]
	default:
		return spec
	}
}
