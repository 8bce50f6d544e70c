package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/imaitland/llrt/internal/fs"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Filesystem metrics
	OpsTotal    *prometheus.CounterVec
	OpDuration  *prometheus.HistogramVec
	ErrorsTotal *prometheus.CounterVec

	// Script metrics
	ScriptsTotal   *prometheus.CounterVec
	ScriptDuration prometheus.Histogram
	Inflight       prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry

	// Snapshot for JSON output - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON output
type MetricsSnapshot struct {
	TotalOps      int64            `json:"total_ops"`
	TotalErrors   int64            `json:"total_errors"`
	TotalDuration float64          `json:"total_duration_seconds"` // sum of all op durations
	Ops           map[string]int64 `json:"ops"`
	Errors        map[string]int64 `json:"errors"` // by kind
	Scripts       map[string]int64 `json:"scripts"`
	Inflight      int64            `json:"inflight"`
	Uptime        float64          `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector on its own registry, so
// several collectors can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,
		snapshot: MetricsSnapshot{
			Ops:     make(map[string]int64),
			Errors:  make(map[string]int64),
			Scripts: make(map[string]int64),
		},

		OpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llrt_fs_ops_total",
				Help: "Total number of filesystem operations",
			},
			[]string{"op", "status"},
		),
		OpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llrt_fs_op_duration_seconds",
				Help:    "Filesystem operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llrt_fs_errors_total",
				Help: "Total number of failed filesystem operations by error kind",
			},
			[]string{"op", "kind"},
		),

		ScriptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llrt_scripts_total",
				Help: "Total number of scripts executed",
			},
			[]string{"status"},
		),
		ScriptDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "llrt_script_duration_seconds",
				Help:    "Script execution duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		Inflight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "llrt_fs_inflight",
				Help: "Number of filesystem operations started by scripts and not yet settled",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "llrt_uptime_seconds",
				Help: "Collector uptime in seconds",
			},
		),
	}

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOp records one filesystem operation. It implements fs.Observer.
func (m *Metrics) ObserveOp(op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.OpsTotal.WithLabelValues(op, status).Inc()
	m.OpDuration.WithLabelValues(op).Observe(duration.Seconds())

	var kind string
	if err != nil {
		kind = string(fs.KindOf(err))
		m.ErrorsTotal.WithLabelValues(op, kind).Inc()
	}

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalOps++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.Ops[op]++
	if err != nil {
		m.snapshot.TotalErrors++
		m.snapshot.Errors[kind]++
	}
	m.mu.Unlock()
}

// RecordScript records a finished script run
func (m *Metrics) RecordScript(status string, duration time.Duration) {
	m.ScriptsTotal.WithLabelValues(status).Inc()
	m.ScriptDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Scripts[status]++
	m.mu.Unlock()
}

// IncInflight increments in-flight operations
func (m *Metrics) IncInflight() {
	m.Inflight.Inc()
	m.mu.Lock()
	m.snapshot.Inflight++
	m.mu.Unlock()
}

// DecInflight decrements in-flight operations
func (m *Metrics) DecInflight() {
	m.Inflight.Dec()
	m.mu.Lock()
	m.snapshot.Inflight--
	m.mu.Unlock()
}

// Snapshot returns a copy of the current values
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime).Seconds()
	m.Uptime.Set(uptime)

	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.Uptime = uptime
	s.Ops = copyCounts(m.snapshot.Ops)
	s.Errors = copyCounts(m.snapshot.Errors)
	s.Scripts = copyCounts(m.snapshot.Scripts)
	return s
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
