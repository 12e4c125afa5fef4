// Package tesseract implements ocr.Engine with gosseract. It needs cgo and the
// tesseract/leptonica shared libraries at runtime.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine runs Tesseract through a fresh gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New returns a Tesseract engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Recognize returns the text Tesseract reads from the image at path.
func (e *Engine) Recognize(ctx context.Context, path string, langs []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

