package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned by Open when no object exists under the key.
	ErrNotFound = errors.New("object not found")
	// ErrExists is returned by Create when the key is already taken.
	ErrExists = errors.New("object already exists")
)

// ObjectStore stores named binary objects. Keys are single file names.
type ObjectStore interface {
	// Create writes r under key. It never overwrites: an existing key yields ErrExists.
	Create(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
