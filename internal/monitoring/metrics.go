package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Simulation metrics
	simulationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mc_sim_runs_total",
			Help: "Total number of simulation runs by outcome",
		},
		[]string{"outcome"},
	)

	simulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mc_sim_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	iterationsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mc_sim_iterations_total",
			Help: "Total simulation iterations completed across all runs",
		},
	)

	progressRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mc_sim_progress_ratio",
			Help: "Progress of the current simulation run (0 to 1)",
		},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(simulationRuns)
	prometheus.MustRegister(simulationDuration)
	prometheus.MustRegister(iterationsCompleted)
	prometheus.MustRegister(progressRatio)
}

// RecordRun records a finished simulation run.
func RecordRun(outcome string, duration time.Duration) {
	simulationRuns.WithLabelValues(outcome).Inc()
	simulationDuration.Observe(duration.Seconds())
}

// AddIterations accumulates completed iterations across runs.
func AddIterations(n int) {
	iterationsCompleted.Add(float64(n))
}

// SetProgress publishes the current run's completion ratio.
func SetProgress(completed, total int) {
	if total > 0 {
		progressRatio.Set(float64(completed) / float64(total))
	}
}

// Serve exposes /metrics on the given port in a background goroutine.
func Serve(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}
