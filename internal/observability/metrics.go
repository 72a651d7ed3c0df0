package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors for the analysis pipeline.
//
// Metrics:
//   - mindecho_analyses_total{mode,outcome} - analyses attempted
//   - mindecho_analysis_duration_seconds{mode} - time spent in the analysis client
//   - mindecho_echo_score - distribution of accepted EchoScores
//   - mindecho_echo_score_out_of_range_total - scores outside 0-100 accepted as-is
//   - mindecho_active_sessions - sessions currently held in memory
type Metrics struct {
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	EchoScore           prometheus.Histogram
	EchoScoreOutOfRange prometheus.Counter
	ActiveSessions      prometheus.Gauge
}

// NewMetrics registers the collectors on the default registry once.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mindecho_analyses_total",
					Help: "Total number of reflection analyses",
				},
				[]string{"mode", "outcome"},
			),
			AnalysisDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "mindecho_analysis_duration_seconds",
					Help:    "Duration of reflection analyses",
					Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 5, 10, 30},
				},
				[]string{"mode"},
			),
			EchoScore: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "mindecho_echo_score",
					Help:    "EchoScore of accepted insights",
					Buckets: prometheus.LinearBuckets(0, 10, 11),
				},
			),
			EchoScoreOutOfRange: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "mindecho_echo_score_out_of_range_total",
					Help: "Accepted insights whose EchoScore fell outside 0-100",
				},
			),
			ActiveSessions: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "mindecho_active_sessions",
					Help: "Journaling sessions currently held in memory",
				},
			),
		}
	})
	return globalMetrics
}
