package spool

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestWriteAndRelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &Spool{Fs: fs, Dir: "/tmp/rc"}

	f, err := s.Write(context.Background(), "cv.png", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if f.SizeBytes != int64(len("image-bytes")) {
		t.Fatalf("unexpected size %d", f.SizeBytes)
	}
	base := filepath.Base(f.Path)
	if !strings.HasPrefix(base, "upload_") || !strings.HasSuffix(base, "_cv.png") {
		t.Fatalf("unexpected temp name %q", base)
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != "image-bytes" {
		t.Fatalf("unexpected content %q", got)
	}

	if err := f.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := afero.Exists(fs, f.Path); ok {
		t.Fatalf("expected temp file removed")
	}
	if err := f.Release(); err != nil {
		t.Fatalf("second Release should be a no-op, got %v", err)
	}
}

func TestWriteSameNameGetsDistinctPaths(t *testing.T) {
	s := &Spool{Fs: afero.NewMemMapFs(), Dir: "/tmp/rc"}
	a, err := s.Write(context.Background(), "resume.jpg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Write a: %v", err)
	}
	b, err := s.Write(context.Background(), "resume.jpg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Write b: %v", err)
	}
	if a.Path == b.Path {
		t.Fatalf("expected distinct temp paths, both %q", a.Path)
	}
}

func TestWriteSanitizesTraversal(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	f, err := s.Write(context.Background(), "../../evil.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer f.Release()
	if filepath.Dir(f.Path) != dir {
		t.Fatalf("temp file escaped spool dir: %q", f.Path)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestWriteFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if _, err := s.Write(context.Background(), "cv.pdf", failingReader{}); err == nil {
		t.Fatalf("expected write error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty spool dir, found %d entries", len(entries))
	}
}
