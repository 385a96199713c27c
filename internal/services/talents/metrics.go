package talents

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/louisbranch/talentcalc/internal/platform/httpx"
)

const (
	metricsNamespace = "talentcalc"
	metricsSubsystem = "talents"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	buildOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "build_ops_total",
			Help:      "Applied build operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)

	decodeDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "decode_dropped_events_total",
			Help:      "Share path events dropped while seeding a build.",
		},
	)

	savedBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "saved_builds_total",
			Help:      "Builds saved under a public id.",
		},
	)
)

// instrument records request count and latency under the route pattern.
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httpx.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.Status())).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func recordOp(op string, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	buildOpsTotal.WithLabelValues(op, outcome).Inc()
}
