package conversions

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrUnsupportedType matches ErrInvalidInput under errors.Is.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported file type", ErrInvalidInput)
	// ErrDocx prefixes document build and storage failures.
	ErrDocx = errors.New("docx generation failed")
)
