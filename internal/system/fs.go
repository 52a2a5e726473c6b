package system

import (
	"io"
	"log/slog"
	"os"
)

// CleanupFunc is a function that cleans up a resource.
type CleanupFunc func() error

// FileSystem is the interface for the file system.
type FileSystem interface {
	// CreateDir creates a directory with the given path and permissions.
	CreateDir(path string, perm os.FileMode) error
	// CreateTempDir creates a temporary directory with the given path and pattern.
	CreateTempDir(dir, pattern string) (string, CleanupFunc, error)
	// CopyFile copies a complete file from source to target with the given
	// permissions.
	CopyFile(source, target string, perm os.FileMode) error
	// Exists checks if a regular file exists at the given path.
	Exists(path string) bool
	// ReadFile reads the file at the given path.
	ReadFile(path string) ([]byte, error)
	// RemoveIfExists removes a file, treating a missing file as success.
	RemoveIfExists(path string) error
	// WriteFile writes data to a file with the given permissions.
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// fileSystem is the default implementation of the FileSystem interface.
type fileSystem struct{}

// NewFileSystem creates a new file system.
func NewFileSystem() FileSystem {
	return &fileSystem{}
}

// CreateDir creates a directory with the given path and permissions. It
// returns an error if the directory cannot be created.
func (fs *fileSystem) CreateDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CreateTempDir creates a temporary directory with the given path and pattern.
// It returns the path to the temporary directory, a function to clean up the
// directory, and an error if the directory cannot be created.
func (fs *fileSystem) CreateTempDir(dir, pattern string) (string, CleanupFunc, error) {
	logger := slog.Default().With("dir", dir, "pattern", pattern)

	tempDir, err := os.MkdirTemp(dir, pattern)
	if err != nil {
		logger.Error("error while creating temp dir", "err", err)
		return "", nil, err
	}

	cleanup := func() error {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			logger.Error("error while removing temp dir", "err", rmErr)
			return rmErr
		}

		return nil
	}

	return tempDir, cleanup, nil
}

// CopyFile copies a complete file from source to target with the given
// permissions. The write is a single whole-file copy so a concurrent reader
// observes either the previous content or the new content in full.
func (fs *fileSystem) CopyFile(source, target string, perm os.FileMode) error {
	logger := slog.Default().With("source", source, "target", target)

	in, err := os.Open(source)
	if err != nil {
		logger.Error("error while opening source file", "err", err)
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		logger.Error("error while creating target file", "err", err)
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		logger.Error("error while copying file", "err", err)
		return err
	}

	if err = out.Close(); err != nil {
		logger.Error("error while closing target file", "err", err)
		return err
	}

	return nil
}

// Exists checks if a regular file exists at the given path.
func (fs *fileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile reads the file at the given path.
func (fs *fileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RemoveIfExists removes a file, treating a missing file as success. It
// returns any other removal failure.
func (fs *fileSystem) RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Default().Error("error while removing file", "path", path, "err", err)
		return err
	}

	return nil
}

// WriteFile writes data to a file with the given permissions.
func (fs *fileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
