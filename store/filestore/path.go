package filestore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// idPath resolves id to a path under dir, rejecting anything that would
// escape dir. Grounded on the teacher's toolset.Policy.ResolvePath: ids are
// caller-controlled strings and must never be trusted to stay within their
// own path segment.
func idPath(dir, id, suffix string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty id", errInvalidID)
	}

	candidate := filepath.Join(dir, trimmed+suffix)
	candidateAbs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve path for id %q: %w", id, err)
	}

	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir: %w", err)
	}

	if !hasPathPrefix(dirAbs, candidateAbs) {
		return "", fmt.Errorf("%w: id %q escapes storage directory", errInvalidID, id)
	}

	return candidateAbs, nil
}

func hasPathPrefix(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return false
	}
	return !strings.HasPrefix(rel, "..") && !strings.Contains(rel, string(filepath.Separator))
}
