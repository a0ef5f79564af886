package utils

import (
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request metrics live in the default Prometheus registry: process-scoped,
// reset on process start, exposed pull-based via /metrics.
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// MetricsMiddleware records a counter and duration sample per request.
func MetricsMiddleware(ctx iris.Context) {
	start := time.Now()
	ctx.Next()
	httpRequestsTotal.WithLabelValues(ctx.Method(), strconv.Itoa(ctx.GetStatusCode())).Inc()
	httpRequestDuration.WithLabelValues(ctx.Method()).Observe(time.Since(start).Seconds())
}

// MetricsHandler serves the Prometheus text exposition.
func MetricsHandler() iris.Handler {
	return iris.FromStd(promhttp.Handler())
}
