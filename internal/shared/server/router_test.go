package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-converter/internal/shared/config"
)

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{Config: config.Config{StaticDir: staticDir}})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, filepath.Join(t.TempDir(), "missing"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || !body["ok"] {
		t.Fatalf("unexpected body %q (%v)", resp.Body.String(), err)
	}
}

func TestStaticServesIndexAndFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>upload</h1>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatalf("write js: %v", err)
	}
	r := newTestRouter(t, dir)

	for path, want := range map[string]string{"/": "<h1>upload</h1>", "/app.js": "console.log(1)"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), want) {
			t.Fatalf("%s: unexpected body %q", path, resp.Body.String())
		}
	}
}

func TestStaticMissingDirReturnsJSON404(t *testing.T) {
	r := newTestRouter(t, filepath.Join(t.TempDir(), "missing"))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected JSON 404, got %q", resp.Header().Get("Content-Type"))
	}
}

func TestStaticDirectoryWithoutIndexIsNotListed(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "logo.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	r := newTestRouter(t, dir)

	for _, p := range []string{"/assets/", "/", "/assets/missing.css"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, resp.Code)
		}
		if !strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
			t.Fatalf("%s: expected JSON 404, got %q", p, resp.Header().Get("Content-Type"))
		}
		if strings.Contains(resp.Body.String(), "logo.svg") {
			t.Fatalf("%s: directory contents leaked: %q", p, resp.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/assets/logo.svg", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "<svg/>" {
		t.Fatalf("expected asset served, got %d %q", resp.Code, resp.Body.String())
	}
}

type panicRoutes struct{}

func (panicRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/explode", func(*gin.Context) { panic("boom") })
}

func TestPanickingRequestIsCounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{
		Config:   config.Config{StaticDir: t.TempDir()},
		Handlers: []RouteRegistrar{panicRoutes{}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/explode", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	want := `resume_converter_http_requests_total{method="GET",route="/api/explode",status="500"} 1`
	if !strings.Contains(resp.Body.String(), want) {
		t.Fatalf("expected %q in metrics output", want)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "go_goroutines") {
		t.Fatalf("expected go collector output")
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{host: "0.0.0.0", port: "8000", want: "0.0.0.0:8000"},
		{host: "", port: ":9000", want: ":9000"},
		{host: "127.0.0.1", port: "", want: "127.0.0.1:8000"},
	}
	for _, tt := range tests {
		if got := Addr(tt.host, tt.port); got != tt.want {
			t.Fatalf("Addr(%q, %q) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
