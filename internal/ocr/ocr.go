// Package ocr turns a spooled upload into plain text.
//
// PDFs carrying a text layer are read directly; everything else is handed to
// an Engine (Tesseract in production).
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/spf13/afero"

	"resume-converter/internal/shared/metrics"
)

const (
	MethodPDFText   = "pdf_text"
	MethodTesseract = "tesseract"

	mimePDF = "application/pdf"
)

// DefaultLanguages is the recognition profile used when none is configured.
var DefaultLanguages = []string{"eng", "chi_tra"}

// ErrFailed wraps every extraction failure.
var ErrFailed = errors.New("ocr failed")

// Engine recognizes text in the file at path.
type Engine interface {
	Recognize(ctx context.Context, path string, langs []string) (string, error)
}

// Result is the outcome of a successful extraction.
type Result struct {
	Text         string
	Method       string
	DetectedType string
}

// Adapter routes a file to the PDF text layer or the OCR engine.
type Adapter struct {
	Engine    Engine
	Languages []string
	Fs        afero.Fs
}

// NewAdapter returns an adapter on the OS filesystem.
func NewAdapter(engine Engine, langs []string) *Adapter {
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Adapter{Engine: engine, Languages: langs, Fs: afero.NewOsFs()}
}

// Extract returns the text in the file at path. Errors are wrapped with ErrFailed
// so their message reads "ocr failed: <cause>".
func (a *Adapter) Extract(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}

	detected, err := a.detect(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}

	if detected == mimePDF {
		started := time.Now()
		text, err := a.pdfText(path)
		if err == nil && strings.TrimSpace(text) != "" {
			metrics.ObserveOCR(MethodPDFText, time.Since(started))
			return Result{Text: text, Method: MethodPDFText, DetectedType: detected}, nil
		}
	}

	if a.Engine == nil {
		return Result{}, fmt.Errorf("%w: no ocr engine configured", ErrFailed)
	}
	started := time.Now()
	text, err := a.Engine.Recognize(ctx, path, a.languages())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	metrics.ObserveOCR(MethodTesseract, time.Since(started))
	return Result{Text: text, Method: MethodTesseract, DetectedType: detected}, nil
}

func (a *Adapter) languages() []string {
	if len(a.Languages) == 0 {
		return DefaultLanguages
	}
	return a.Languages
}

func (a *Adapter) fs() afero.Fs {
	if a.Fs == nil {
		return afero.NewOsFs()
	}
	return a.Fs
}

func (a *Adapter) detect(path string) (string, error) {
	f, err := a.fs().Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	return mt.String(), nil
}

func (a *Adapter) pdfText(path string) (string, error) {
	f, err := a.fs().Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
