package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	StatusChanges *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// regがnilなら専用のレジストリを作る（テストで何度作っても衝突しない）
func NewServerMetrics(reg *prometheus.Registry) *ServerMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kidcare",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kidcare",
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kidcare",
		Subsystem: "domain",
		Name:      "status_changes_total",
		Help:      "Committed status changes by record kind and target status.",
	}, []string{"kind", "to"})

	reg.MustRegister(requests, latency, changes)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, StatusChanges: changes, gatherer: reg}
}

// ルートのパターン単位で数える（/orders/:id など）
func (m *ServerMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.Requests.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(path).Observe(float64(time.Since(start).Milliseconds()))
			return err
		}
	}
}

func (m *ServerMetrics) StatusChanged(kind, to string) {
	m.StatusChanges.WithLabelValues(kind, to).Inc()
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
