package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncConversionCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(conversionsTotal.WithLabelValues("succeeded"))
	IncConversion("succeeded")
	IncConversion("succeeded")
	after := testutil.ToFloat64(conversionsTotal.WithLabelValues("succeeded"))
	if after-before != 2 {
		t.Fatalf("expected +2 conversions, got %v", after-before)
	}
}

func TestHandlerRendersExposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ObserveHTTP(http.MethodPost, "/api/upload", http.StatusOK, 150*time.Millisecond)
	ObserveOCR("tesseract", time.Second)
	ObserveDocxBytes(8192)

	r := gin.New()
	r.GET("/metrics", Handler())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		"resume_converter_http_requests_total",
		"resume_converter_ocr_duration_seconds_bucket",
		"resume_converter_docx_size_bytes_count",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in exposition", want)
		}
	}
}
