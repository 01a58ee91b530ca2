package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureParentDir creates every missing directory above path.
//
// Arguments:
// - path: File path whose parent directory must exist.
//
// Returns:
// - error: Error if a directory cannot be created.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}

// RemoveQuietly removes path and ignores every error, including the file not
// existing. Used for scoped cleanup where a failed removal must never replace
// the error that ended the scope.
func RemoveQuietly(path string) {
	_ = os.Remove(path)
}
