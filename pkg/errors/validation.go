package errors

import (
	"path/filepath"
	"strings"
)

// ValidateDepth rejects negative tree depths.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidDepth, "depth must be >= 0, got %d", depth)
	}
	return nil
}

// ValidateRange rejects value ranges whose lower bound exceeds the upper bound.
// Equal bounds are valid and pin every value.
func ValidateRange(min, max int) error {
	if min > max {
		return New(ErrCodeInvalidRange, "min value %d exceeds max value %d", min, max)
	}
	return nil
}

// ValidateOutputPath checks that an output path names a file.
// Empty paths, directory-looking paths and paths containing null bytes are rejected.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeUsage, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeUsage, "output path contains a null byte")
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeUsage, "output path %q is a directory", path)
	}
	return nil
}
