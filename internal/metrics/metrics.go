package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the console's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleet_console",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight page requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleet_console",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of page requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleet_console",
			Subsystem: "fleet_api",
			Name:      "requests_total",
			Help:      "Total number of fleet API calls by outcome.",
		},
		[]string{"method", "path", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fleet_console",
			Subsystem: "fleet_api",
			Name:      "request_duration_seconds",
			Help:      "Duration of fleet API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleet_console",
			Subsystem: "auth",
			Name:      "token_refreshes_total",
			Help:      "Token refresh flights by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleet_console",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notifications by kind and whether they were shown or dropped as duplicates.",
		},
		[]string{"kind", "outcome"},
	)

	sessionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fleet_console",
			Subsystem: "session",
			Name:      "purged_total",
			Help:      "Expired sessions removed by the cleanup job.",
		},
	)
)

// Refresh results.
const (
	RefreshSuccess = "success"
	RefreshReused  = "reused"
	RefreshFailed  = "failed"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		apiRequests,
		apiDuration,
		tokenRefreshes,
		notifications,
		sessionsPurged,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records page request counts labelled by gin route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RecordAPIRequest records one fleet API call. Status 0 means the call never got a response.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	p := CanonicalPath(path)
	apiRequests.WithLabelValues(strings.ToUpper(method), p, strconv.Itoa(status)).Inc()
	apiDuration.WithLabelValues(strings.ToUpper(method), p).Observe(duration.Seconds())
}

func RecordRefresh(result string) {
	tokenRefreshes.WithLabelValues(result).Inc()
}

func RecordNotification(kind string, shown bool) {
	outcome := "shown"
	if !shown {
		outcome = "deduplicated"
	}
	notifications.WithLabelValues(kind, outcome).Inc()
}

func RecordSessionsPurged(n int64) {
	if n > 0 {
		sessionsPurged.Add(float64(n))
	}
}

// CanonicalPath replaces numeric path segments with ":id" to bound label cardinality.
func CanonicalPath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}
