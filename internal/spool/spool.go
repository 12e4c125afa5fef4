// Package spool writes uploaded files to per-request temp paths and removes
// them when the request is done.
package spool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"resume-converter/internal/shared/telemetry"
	"resume-converter/internal/shared/util"
)

const filePrefix = "upload_"

// Spool creates temp files for uploads under Dir.
type Spool struct {
	Fs  afero.Fs
	Dir string
}

// File is one spooled upload. Release must be called exactly once.
type File struct {
	Path      string
	SizeBytes int64

	fs afero.Fs
}

// New returns a spool on the OS filesystem rooted at dir.
func New(dir string) *Spool {
	return &Spool{Fs: afero.NewOsFs(), Dir: dir}
}

// Write copies r into a fresh temp file named upload_<uuid>_<sanitized name>.
// On error nothing is left behind.
func (s *Spool) Write(ctx context.Context, fileName string, r io.Reader) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	safeName, err := util.SanitizeFileName(fileName)
	if err != nil {
		safeName = "file"
	}
	if err := s.Fs.MkdirAll(s.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir temp dir: %w", err)
	}

	path := filepath.Join(s.Dir, filePrefix+uuid.NewString()+"_"+safeName)
	f, err := s.Fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.Fs.Remove(path)
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	return &File{Path: path, SizeBytes: written, fs: s.Fs}, nil
}

// Release deletes the temp file. A missing file is not an error.
func (f *File) Release() error {
	if f == nil || f.fs == nil {
		return nil
	}
	if err := f.fs.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		telemetry.Error("spool.release.failed", map[string]any{"path": f.Path, "err": err})
		return err
	}
	return nil
}

// Open opens the spooled file for reading.
func (f *File) Open() (afero.File, error) {
	return f.fs.Open(f.Path)
}
