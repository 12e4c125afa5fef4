package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

type fakeEngine struct {
	text  string
	err   error
	calls int
	path  string
	langs []string
}

func (f *fakeEngine) Recognize(_ context.Context, path string, langs []string) (string, error) {
	f.calls++
	f.path = path
	f.langs = langs
	return f.text, f.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// buildPDF writes a one-page PDF whose content stream is content.
func buildPDF(content string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func newTestAdapter(t *testing.T, engine Engine, name string, data []byte) (*Adapter, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	path := "/spool/" + name
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return &Adapter{Engine: engine, Languages: []string{"eng", "chi_tra"}, Fs: fs}, path
}

func TestExtractImageUsesEngine(t *testing.T) {
	engine := &fakeEngine{text: "Jane Doe\n\nEngineer"}
	a, path := newTestAdapter(t, engine, "cv.png", pngHeader)

	res, err := a.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "Jane Doe\n\nEngineer" || res.Method != MethodTesseract {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.DetectedType != "image/png" {
		t.Fatalf("unexpected detected type %q", res.DetectedType)
	}
	if engine.path != path || !reflect.DeepEqual(engine.langs, []string{"eng", "chi_tra"}) {
		t.Fatalf("engine called with %q %v", engine.path, engine.langs)
	}
}

func TestExtractPDFTextLayerSkipsEngine(t *testing.T) {
	engine := &fakeEngine{text: "should not be used"}
	pdf := buildPDF("BT /F1 12 Tf 72 720 Td (Hello Resume) Tj ET")
	a, path := newTestAdapter(t, engine, "cv.pdf", pdf)

	res, err := a.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodPDFText {
		t.Fatalf("expected pdf text method, got %q", res.Method)
	}
	if !strings.Contains(res.Text, "Hello Resume") {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if engine.calls != 0 {
		t.Fatalf("engine should not run for pdf with text layer")
	}
}

func TestExtractScannedPDFFallsBackToEngine(t *testing.T) {
	engine := &fakeEngine{text: "scanned"}
	a, path := newTestAdapter(t, engine, "scan.pdf", buildPDF(""))

	res, err := a.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodTesseract || res.Text != "scanned" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.DetectedType != "application/pdf" {
		t.Fatalf("unexpected detected type %q", res.DetectedType)
	}
}

func TestExtractWrapsEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("corrupt image")}
	a, path := newTestAdapter(t, engine, "bad.png", pngHeader)

	_, err := a.Extract(context.Background(), path)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if err.Error() != "ocr failed: corrupt image" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExtractMissingFile(t *testing.T) {
	a := &Adapter{Engine: &fakeEngine{}, Fs: afero.NewMemMapFs()}
	if _, err := a.Extract(context.Background(), "/nope.png"); !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
}

func TestExtractWithoutEngine(t *testing.T) {
	a, path := newTestAdapter(t, nil, "cv.png", pngHeader)
	a.Engine = nil
	_, err := a.Extract(context.Background(), path)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
}

func TestNewAdapterDefaultsLanguages(t *testing.T) {
	a := NewAdapter(&fakeEngine{}, nil)
	if !reflect.DeepEqual(a.Languages, DefaultLanguages) {
		t.Fatalf("unexpected languages %v", a.Languages)
	}
}
