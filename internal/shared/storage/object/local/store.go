package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"resume-converter/internal/shared/storage/object"
	"resume-converter/internal/shared/util"
)

// Store implements ObjectStore on a directory of an afero filesystem.
type Store struct {
	fs      afero.Fs
	baseDir string
}

// New creates a local object store rooted at baseDir on the OS filesystem,
// creating the directory if it does not exist.
func New(baseDir string) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), baseDir)
}

// NewWithFs creates a store rooted at baseDir on fs.
func NewWithFs(fs afero.Fs, baseDir string) (*Store, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", baseDir, err)
	}
	return &Store{fs: fs, baseDir: baseDir}, nil
}

// Dir returns the directory objects are written to.
func (s *Store) Dir() string {
	return s.baseDir
}

// Create writes the reader to baseDir/key, failing if the file already exists.
func (s *Store) Create(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !util.IsPlainFileName(key) {
		return 0, fmt.Errorf("invalid storage key %q", key)
	}

	fullPath := filepath.Join(s.baseDir, key)
	f, err := s.fs.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, object.ErrExists
		}
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(fullPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !util.IsPlainFileName(key) {
		return nil, object.ErrNotFound
	}

	f, err := s.fs.Open(filepath.Join(s.baseDir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, object.ErrNotFound
	}
	return f, nil
}

var _ object.ObjectStore = (*Store)(nil)
