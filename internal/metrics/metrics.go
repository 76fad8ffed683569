package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of outbound commerce API requests.",
		},
		[]string{"code", "method", "endpoint"},
	)
	apiRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Duration of outbound commerce API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_api_requests_in_flight",
			Help: "Current number of outbound commerce API requests being processed.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// endpointLabel collapses a request path to its API endpoint so query-string
// and id variants do not explode label cardinality.
func endpointLabel(path string) string {
	const prefix = "/api/v1/"

	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == path {
		return "other"
	}

	return trimmed
}

type roundTripper struct {
	next http.RoundTripper
}

// RoundTripper wraps a transport so every outbound request is counted and
// timed.
func RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &roundTripper{next: next}
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {

	start := time.Now()
	apiRequestsInFlight.Inc()

	defer apiRequestsInFlight.Dec()

	endpoint := endpointLabel(req.URL.Path)

	resp, err := rt.next.RoundTrip(req)

	duration := time.Since(start)
	apiRequestsDuration.WithLabelValues(req.Method, endpoint).Observe(duration.Seconds())

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	apiRequestsTotal.WithLabelValues(code, req.Method, endpoint).Inc()

	return resp, err
}

// Handler exposes the registry for the status listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
