package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geofieldx",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geofieldx",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Field-operations metrics
	FeaturesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "field",
		Name:      "features_created_total",
		Help:      "Total infrastructure features created",
	}, []string{"type"})

	TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "field",
		Name:      "tasks_created_total",
		Help:      "Total field tasks created",
	}, []string{"priority"})

	TaskStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "field",
		Name:      "task_status_changes_total",
		Help:      "Total task status transitions",
	}, []string{"status"})

	ShapefilesConverted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "shapefile",
		Name:      "converted_total",
		Help:      "Total shapefile archives converted to GeoJSON",
	})

	ShapefileConvertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geofieldx",
		Subsystem: "shapefile",
		Name:      "convert_duration_seconds",
		Help:      "Duration of shapefile ZIP to GeoJSON conversion",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	ShapefileConvertErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "shapefile",
		Name:      "convert_errors_total",
		Help:      "Total failed shapefile conversions",
	})

	ImagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "uploads",
		Name:      "images_processed_total",
		Help:      "Total feature photos stored (thumbnails included)",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geofieldx",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geofieldx",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geofieldx",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geofieldx",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geofieldx",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool gauges from pgx pool stats.
// The stat argument is duck-typed so this package stays pgx-free.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
