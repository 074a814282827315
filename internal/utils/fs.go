package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFileSource reads files from the local filesystem.
// Relative paths resolve against the process working directory.
type OSFileSource struct{}

// Exists reports whether anything (file or directory) exists at path
func (OSFileSource) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads the whole file at path
func (OSFileSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ResolvePath joins a relative path onto root. Absolute paths, and any
// path when root is empty, are returned unchanged.
func ResolvePath(root, path string) string {
	if root == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ExpandPath(root), path)
}

// ExecutableDir returns the directory holding the running binary,
// falling back to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// IsNotExist reports whether err means the path does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
