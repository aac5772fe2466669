package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"whisper-offline/internal/app/model"
)

const namespace = "whisper_offline"

// Collector holds the pipeline metrics on its own registry so the CLI can
// dump them to a textfile without picking up unrelated global collectors.
type Collector struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	inFlight      prometheus.Gauge
}

// NewCollector registers all pipeline metrics. withRuntime adds the Go and
// process collectors, which only make sense for the long-running server.
func NewCollector(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal stage.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600, 1800},
		}, []string{"stage"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of whole pipeline runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 180, 600, 1800, 3600},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "1 while a run is executing.",
		}),
	}

	c.registry.MustRegister(c.runs, c.stageDuration, c.runDuration, c.inFlight)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Registry exposes the underlying registry for promhttp.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RunStarted marks a run as in flight.
func (c *Collector) RunStarted() {
	c.inFlight.Inc()
}

// RunAborted undoes RunStarted for a run that was never submitted.
func (c *Collector) RunAborted() {
	c.inFlight.Dec()
}

// Observe records a finished run.
func (c *Collector) Observe(outcome model.Outcome) {
	c.inFlight.Dec()
	c.runs.WithLabelValues(string(outcome.Stage)).Inc()
	for stage, d := range outcome.Timings {
		c.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
	}
	if d := outcome.Duration(); d > 0 {
		c.runDuration.Observe(d.Seconds())
	}
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
