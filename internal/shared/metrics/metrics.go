package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_converter"

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	conversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversion",
			Name:      "total",
			Help:      "Conversions by outcome.",
		},
		[]string{"outcome"},
	)
	ocrDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ocr",
			Name:      "duration_seconds",
			Help:      "OCR duration in seconds by extraction method.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method"},
	)
	docxBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "docx",
			Name:      "size_bytes",
			Help:      "Size of generated documents in bytes.",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 10),
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		conversionsTotal,
		ocrDuration,
		docxBytes,
	)
}

// ObserveHTTP records one served request. route should be the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncConversion counts a conversion attempt by outcome ("succeeded", "failed", "rejected").
func IncConversion(outcome string) {
	conversionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveOCR records how long text extraction took for the given method.
func ObserveOCR(method string, elapsed time.Duration) {
	ocrDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveDocxBytes records the size of a generated document.
func ObserveDocxBytes(n int64) {
	if n < 0 {
		n = 0
	}
	docxBytes.Observe(float64(n))
}

// Registry exposes the collector registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
