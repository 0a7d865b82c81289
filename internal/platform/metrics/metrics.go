package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hrmperf/internal/domain/notifications"
	"hrmperf/internal/domain/performance"
)

const namespace = "hrmperf"

// Metrics holds every collector the service exports.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	RateLimited         prometheus.Counter
	WorkflowTransitions *prometheus.CounterVec
	WriteConflicts      prometheus.Counter
	PlansByStatus       *prometheus.GaugeVec
	WindowCounts        *prometheus.GaugeVec
	JobRuns             *prometheus.CounterVec
	LastSnapshot        prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		WorkflowTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transitions_total",
			Help:      "Committed plan status changes.",
		}, []string{"kind", "from", "to", "action"}),
		WriteConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_write_conflicts_total",
			Help:      "Plan writes rejected because another writer got there first.",
		}),
		PlansByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plans",
			Help:      "Plans and appraisals by status at the last snapshot.",
		}, []string{"status"}),
		WindowCounts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_window_count",
			Help:      "Organisation-wide weekly notification counts at the last snapshot.",
		}, []string{"count"}),
		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by type and outcome.",
		}, []string{"job", "status"}),
		LastSnapshot: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_snapshot_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot.",
		}),
	}
	return m
}

func (m *Metrics) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if status == 429 {
		m.RateLimited.Inc()
	}
}

func (m *Metrics) ObserveTransition(kind performance.Kind, from, to performance.Status, action performance.Action) {
	fromLabel := string(from)
	if fromLabel == "" {
		fromLabel = "none"
	}
	m.WorkflowTransitions.WithLabelValues(string(kind), fromLabel, string(to), string(action)).Inc()
}

func (m *Metrics) ObserveConflict() {
	m.WriteConflicts.Inc()
}

func (m *Metrics) ObserveJob(job string, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	m.JobRuns.WithLabelValues(job, status).Inc()
}

func (m *Metrics) PublishSnapshot(summary performance.Summary, counts notifications.WindowCounts, at time.Time) {
	for status, n := range summary.ByStatus {
		m.PlansByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	m.WindowCounts.WithLabelValues("due_this_week").Set(float64(counts.DueThisWeek))
	m.WindowCounts.WithLabelValues("progress_updates").Set(float64(counts.ProgressUpdates))
	m.WindowCounts.WithLabelValues("completed_this_week").Set(float64(counts.CompletedThisWeek))
	m.LastSnapshot.Set(float64(at.Unix()))
}
