package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aave_borrower"

// Outcomes recorded on steps_total.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Recorder collects per-run pipeline metrics on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	transactions prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Pipeline steps by name and outcome.",
		}, []string{"step", "outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of each pipeline step including confirmation waits.",
			Buckets:   []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"step"}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_submitted_total",
			Help:      "Transactions submitted to the network.",
		}),
	}
	r.registry.MustRegister(r.steps, r.stepDuration, r.transactions)
	return r
}

// ObserveStep records the outcome and duration of a step.
func (r *Recorder) ObserveStep(step, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.steps.WithLabelValues(step, outcome).Inc()
	if outcome != OutcomeSkipped {
		r.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
	}
}

// TransactionSubmitted counts one submitted transaction.
func (r *Recorder) TransactionSubmitted() {
	if r == nil {
		return
	}
	r.transactions.Inc()
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// WriteTextfile writes the collected metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Gatherer())
}
