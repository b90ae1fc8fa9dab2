package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haasonsaas/nexus/internal/agent"
)

// reservedDirs are system paths no resolved target may equal or fall under,
// even when AllowedDirs is configured permissively.
var reservedDirs = []string{
	"/etc",
	"/proc",
	"/sys",
	"/dev",
	"/boot",
	"/root",
}

// Resolver resolves and validates workspace-relative paths. A path is
// accepted when it resolves inside Root or inside any entry of AllowedDirs,
// and rejected outright when it resolves to or under a reserved system
// directory, regardless of Root/AllowedDirs.
type Resolver struct {
	Root        string
	AllowedDirs []string
}

// Resolve returns an absolute, cleaned path within the workspace root or one
// of the configured allowed directories.
func (r Resolver) Resolve(path string) (string, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return "", fmt.Errorf("path is required")
	}
	root := strings.TrimSpace(r.Root)
	if root == "" {
		root = "."
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	var target string
	if filepath.IsAbs(clean) {
		target = filepath.Clean(clean)
	} else {
		target = filepath.Join(rootAbs, clean)
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if err := rejectReserved(targetAbs); err != nil {
		return "", err
	}

	if !withinAny(targetAbs, rootAbs, r.AllowedDirs) {
		return "", fmt.Errorf("%w: path escapes workspace", agent.ErrPathPolicy)
	}

	// If the target (or an existing ancestor of it) resolves through a
	// symlink, re-check the real path: a symlink planted inside an allowed
	// directory that points outside every allowed root must still be
	// rejected.
	if real, err := filepath.EvalSymlinks(targetAbs); err == nil {
		if err := rejectReserved(real); err != nil {
			return "", err
		}
		if !withinAny(real, rootAbs, r.AllowedDirs) {
			return "", fmt.Errorf("%w: path escapes workspace via symlink", agent.ErrPathPolicy)
		}
	}

	return targetAbs, nil
}

// withinAny reports whether target is rootAbs itself or a descendant of
// rootAbs or any entry of allowed.
func withinAny(target, rootAbs string, allowed []string) bool {
	if isWithin(target, rootAbs) {
		return true
	}
	for _, dir := range allowed {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dirAbs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if isWithin(target, dirAbs) {
			return true
		}
	}
	return false
}

func isWithin(target, base string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

// rejectReserved returns an error when target equals or falls under a
// reserved system directory.
func rejectReserved(target string) error {
	for _, reserved := range reservedDirs {
		if isWithin(target, reserved) {
			return fmt.Errorf("%w: path resolves to reserved system directory %s", agent.ErrPathPolicy, reserved)
		}
	}
	return nil
}
