package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	GraphQLOperations *prometheus.CounterVec
	GraphQLDuration   *prometheus.HistogramVec
}

// NewMetrics registers the HTTP and GraphQL collectors, plus Go runtime,
// process and, when sqlDB is non-nil, connection pool statistics.
func NewMetrics(sqlDB *sql.DB) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "postboard",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "postboard",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		GraphQLOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "postboard",
				Subsystem: "graphql",
				Name:      "operations_total",
				Help:      "Total number of GraphQL operations",
			},
			[]string{"operation", "status"},
		),

		GraphQLDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "postboard",
				Subsystem: "graphql",
				Name:      "operation_duration_seconds",
				Help:      "GraphQL operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.GraphQLOperations,
		m.GraphQLDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB != nil {
		m.registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "postboard"))
	}
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation records one GraphQL operation. The operation name is not
// used as a label since clients choose it freely.
func (m *Metrics) ObserveOperation(operation, _ string, latency time.Duration, errCount int) {
	if operation == "" {
		operation = "unknown"
	}
	status := "ok"
	if errCount > 0 {
		status = "error"
	}
	m.GraphQLOperations.WithLabelValues(operation, status).Inc()
	m.GraphQLDuration.WithLabelValues(operation).Observe(latency.Seconds())
}

// Middleware records request counts and latencies by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}
