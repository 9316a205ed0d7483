package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const blobExt = ".json"

// LocalStorage stores queues as files in a single directory.
// Safe for concurrent use; concurrent saves of one queue are last-writer-wins.
type LocalStorage struct {
	baseDir string
	perm    fs.FileMode
}

// LocalOption defines a function that configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithFileMode sets the permissions of queue files. Defaults to 0600.
func WithFileMode(perm fs.FileMode) LocalOption {
	return func(s *LocalStorage) {
		s.perm = perm
	}
}

// NewLocalStorage creates a local storage rooted at baseDir.
// baseDir is resolved to an absolute path and created if it doesn't exist.
func NewLocalStorage(baseDir string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrFailedToGetAbsolutePath, err)
	}

	if err := os.MkdirAll(absBaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	s := &LocalStorage{
		baseDir: absBaseDir,
		perm:    0o600,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Dir returns the absolute base directory.
func (s *LocalStorage) Dir() string { return s.baseDir }

func (s *LocalStorage) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolvePath(name)
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return blob, nil
}

// Save replaces the stored queue atomically.
func (s *LocalStorage) Save(ctx context.Context, name string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolvePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	if _, err := tmp.Write(blob); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return nil
}

// resolvePath maps a queue name to its file, refusing anything that would
// escape baseDir.
func (s *LocalStorage) resolvePath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	absPath, err := filepath.Abs(filepath.Join(s.baseDir, name+blobExt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}

	if filepath.Dir(absPath) != s.baseDir {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return absPath, nil
}
