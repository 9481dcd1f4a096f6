package tools

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveProjectPath validates and normalizes a caller-supplied project
// path: trailing slashes are stripped, the path is made absolute, and it
// must exist. Every path-taking operation runs through this before any
// process is spawned.
func ResolveProjectPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", &MissingArgumentError{Name: "project_path"}
	}

	for len(trimmed) > 1 && strings.HasSuffix(trimmed, "/") {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", &PathNotFoundError{Path: abs}
		}
		return "", err
	}

	return abs, nil
}
