package conversions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"resume-converter/internal/ocr"
	"resume-converter/internal/shared/metrics"
	"resume-converter/internal/shared/storage/object"
	"resume-converter/internal/shared/telemetry"
	"resume-converter/internal/shared/util"
	"resume-converter/internal/spool"
	"resume-converter/resume/render"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50

	docxNameLayout = "20060102_150405"
	maxNameRetries = 5
)

var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// TextExtractor turns a spooled file into text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

// Service runs uploads through spool, OCR and the document builder.
type Service struct {
	Spool       *spool.Spool
	OCR         TextExtractor
	Store       object.ObjectStore
	Repo        ConversionsRepo
	DocxEnabled bool
	Now         func() time.Time
}

// NormalizeDeclaredType returns the media type of a part's Content-Type when it
// is one of the accepted upload types.
func NormalizeDeclaredType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)
	if _, ok := allowedTypes[mediaType]; !ok {
		return "", ErrUnsupportedType
	}
	return mediaType, nil
}

// Convert spools the upload, extracts its text and, when enabled, stores a .docx
// built from it. The temp file never outlives the call.
func (s *Service) Convert(ctx context.Context, in Upload, r io.Reader) (Result, error) {
	declared, err := NormalizeDeclaredType(in.DeclaredType)
	if err != nil {
		metrics.IncConversion("rejected")
		return Result{}, err
	}

	started := s.now()
	record := Conversion{
		ID:               uuid.NewString(),
		OriginalFilename: util.CapFileName(in.FileName),
		DeclaredType:     declared,
		CreatedAt:        started.UTC(),
	}

	res, err := s.convert(ctx, in.FileName, r, &record)
	record.DurationMs = s.now().Sub(started).Milliseconds()
	if err != nil {
		record.Status = StatusFailed
		record.ErrorMessage = err.Error()
	} else {
		record.Status = StatusSucceeded
	}
	s.record(ctx, record)

	if err != nil {
		return Result{Record: record}, err
	}
	res.Record = record
	return res, nil
}

func (s *Service) convert(ctx context.Context, fileName string, r io.Reader, record *Conversion) (Result, error) {
	file, err := s.Spool.Write(ctx, fileName, r)
	if err != nil {
		return Result{}, err
	}
	defer file.Release()
	record.SizeBytes = file.SizeBytes

	extracted, err := s.OCR.Extract(ctx, file.Path)
	record.DetectedType = extracted.DetectedType
	record.ExtractMethod = extracted.Method
	if err != nil {
		return Result{}, err
	}
	record.TextChars = utf8.RuneCountInString(extracted.Text)

	res := Result{Text: extracted.Text}
	if !s.DocxEnabled {
		return res, nil
	}

	name, err := s.storeDocument(ctx, extracted.Text)
	if err != nil {
		return Result{}, err
	}
	res.DocxFile = name
	record.DocxFile = name
	return res, nil
}

// storeDocument writes resume_<timestamp>.docx, appending a short token when the
// name is already taken.
func (s *Service) storeDocument(ctx context.Context, text string) (string, error) {
	payload, err := render.BuildDocument(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocx, err)
	}
	if s.Store == nil {
		return "", fmt.Errorf("%w: no output store configured", ErrDocx)
	}

	base := "resume_" + s.now().Format(docxNameLayout)
	name := base + ".docx"
	for attempt := 0; ; attempt++ {
		_, err := s.Store.Create(ctx, name, render.ContentType, bytes.NewReader(payload))
		if err == nil {
			metrics.ObserveDocxBytes(int64(len(payload)))
			return name, nil
		}
		if !errors.Is(err, object.ErrExists) || attempt >= maxNameRetries {
			return "", fmt.Errorf("%w: %v", ErrDocx, err)
		}
		name = base + "_" + shortToken() + ".docx"
	}
}

func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *Service) record(ctx context.Context, record Conversion) {
	metrics.IncConversion(string(record.Status))

	fields := map[string]any{
		"conversion_id":  record.ID,
		"file_name":      record.OriginalFilename,
		"declared_type":  record.DeclaredType,
		"detected_type":  record.DetectedType,
		"size":           humanize.Bytes(uint64(record.SizeBytes)),
		"text_chars":     record.TextChars,
		"extract_method": record.ExtractMethod,
		"docx_file":      record.DocxFile,
		"status":         string(record.Status),
		"duration_ms":    record.DurationMs,
	}
	if record.Status == StatusFailed {
		fields["err"] = record.ErrorMessage
		telemetry.Error("conversion.failed", fields)
	} else {
		telemetry.Info("conversion.complete", fields)
	}

	if s.Repo == nil {
		return
	}
	if err := s.Repo.Create(context.WithoutCancel(ctx), record); err != nil {
		telemetry.Error("conversion.record.failed", map[string]any{
			"conversion_id": record.ID,
			"err":           err,
		})
	}
}

// OpenDocument opens a previously generated document. Names that are not plain
// file names are reported as ErrNotFound.
func (s *Service) OpenDocument(ctx context.Context, name string) (io.ReadCloser, error) {
	if !util.IsPlainFileName(name) || s.Store == nil {
		return nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}

// List returns recent conversion records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Conversion, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidInput
	}
	if s.Repo == nil {
		return []Conversion{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
