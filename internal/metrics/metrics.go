// Package metrics holds the Prometheus instruments of the compiler. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codephy"

// Stage names a step of the compilation pipeline.
type Stage string

const (
	StageLoad     Stage = "load"
	StageBuild    Stage = "build"
	StageResolve  Stage = "resolve"
	StageCycles   Stage = "cycles"
	StageCheck    Stage = "check"
	StageLower    Stage = "lower"
	StageAssemble Stage = "assemble"
)

// Metrics records compilation outcomes.
type Metrics struct {
	// CompilationsTotal counts compilations by operation and outcome.
	CompilationsTotal *prometheus.CounterVec
	// StageDuration observes the duration of each pipeline stage.
	StageDuration *prometheus.HistogramVec
	// DiagnosticsTotal counts reported errors by kind.
	DiagnosticsTotal *prometheus.CounterVec
	// NodesLowered counts nodes passed through lowering.
	NodesLowered prometheus.Counter
}

// New registers every instrument on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CompilationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compilations_total",
				Help:      "Compilations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each compilation stage.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"stage"},
		),
		DiagnosticsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Reported model errors by kind.",
			},
			[]string{"kind"},
		),
		NodesLowered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_lowered_total",
			Help:      "Nodes passed through the lowering passes.",
		}),
	}
}

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage Stage, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
}

// RecordCompilation counts one finished operation.
func (m *Metrics) RecordCompilation(operation string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.CompilationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordDiagnostic counts one reported error of the given kind.
func (m *Metrics) RecordDiagnostic(kind string) {
	if m == nil {
		return
	}
	m.DiagnosticsTotal.WithLabelValues(kind).Inc()
}

// RecordLowered adds n lowered nodes.
func (m *Metrics) RecordLowered(n int) {
	if m == nil {
		return
	}
	m.NodesLowered.Add(float64(n))
}
