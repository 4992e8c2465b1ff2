package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a builder's declared output path.
// Declared paths are relative to the output directory chosen at run time,
// so they must stay inside it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No control characters
//   - No absolute paths
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "output path must be relative: %q", path)
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..): %q", path)
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "output path cannot contain backslashes: %q", path)
	}

	return nil
}

// diagramNameRegex matches registry names: lowercase words joined by dashes.
var diagramNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateDiagramName validates a builder registry name such as "overview"
// or "use-case-a". Names double as URL path segments in the preview server.
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGraph, "diagram name cannot be empty")
	}
	if !diagramNameRegex.MatchString(name) {
		return New(ErrCodeInvalidGraph, "invalid diagram name: %q", name)
	}
	return nil
}
