package observability

import (
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// scheduleOps are the label values used for schedule mutations.
var scheduleOps = []string{"replace", "set_day_open", "set_slot_time", "add_slot", "remove_slot", "copy_day_to_all"}

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	externalErrors    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	accessDecisions   *prometheus.CounterVec
	scheduleMutations *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agenda_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenda_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenda_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenda_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		accessDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenda_access_decisions_total",
				Help: "Route guard decisions by outcome.",
			},
			[]string{"action"},
		),
		scheduleMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenda_schedule_mutations_total",
				Help: "Working-hours edits persisted, by operation.",
			},
			[]string{"op"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrAccessDecision counts one guard outcome. Redirects are labelled by
// target kind ("redirect_login" or "redirect_home").
func (m *Metrics) IncrAccessDecision(action string) {
	m.accessDecisions.WithLabelValues(action).Inc()
}

// IncrScheduleMutation counts one persisted working-hours edit.
func (m *Metrics) IncrScheduleMutation(op string) {
	m.scheduleMutations.WithLabelValues(op).Inc()
}

// GetAccessSnapshot returns the counters behind GET /v1/admin/metrics/access.
func (m *Metrics) GetAccessSnapshot() *domain.AccessMetrics {
	hits := getCounterValue(m.cacheHits, "profile")
	misses := getCounterValue(m.cacheMisses, "profile")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	changes := make(map[string]int64, len(scheduleOps))
	for _, op := range scheduleOps {
		changes[op] = int64(getCounterValue(m.scheduleMutations, op))
	}

	return &domain.AccessMetrics{
		Render:          int64(getCounterValue(m.accessDecisions, "render")),
		Loading:         int64(getCounterValue(m.accessDecisions, "loading")),
		RedirectLogin:   int64(getCounterValue(m.accessDecisions, "redirect_login")),
		RedirectHome:    int64(getCounterValue(m.accessDecisions, "redirect_home")),
		ScheduleChanges: changes,
		CacheHitRate:    hitRate,
		Period:          "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
