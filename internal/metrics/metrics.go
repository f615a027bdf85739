// Package metrics records fill and propagation runs as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/conn-castle/spatialfill/internal/summary"
)

// Recorder owns a private registry so several recorders can coexist in one process.
// It implements batch.Observer.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	previewsTotal   *prometheus.CounterVec
	scannedTotal    *prometheus.CounterVec
	writesTotal     *prometheus.CounterVec
	skipsTotal      *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	resolvedTotal   *prometheus.CounterVec
	hostWarnings    *prometheus.CounterVec
	detectionsTotal *prometheus.CounterVec
	estimatedWrites *prometheus.GaugeVec
	runDuration     *prometheus.HistogramVec
	previewDuration *prometheus.HistogramVec
	previewWarnings *prometheus.GaugeVec
}

// New returns a recorder with all collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_runs_total",
				Help: "Execute runs by mode and final state",
			},
			[]string{"mode", "state"},
		),
		previewsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_previews_total",
				Help: "Preview runs by mode",
			},
			[]string{"mode"},
		),
		scannedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_elements_scanned_total",
				Help: "Elements scanned by execute runs",
			},
			[]string{"mode"},
		),
		writesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_writes_total",
				Help: "Successful property writes by operation",
			},
			[]string{"mode", "operation"},
		),
		skipsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_skips_total",
				Help: "Skipped writes by reason",
			},
			[]string{"mode", "reason"},
		),
		failuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_failures_total",
				Help: "Failed writes by failure kind",
			},
			[]string{"mode", "kind"},
		),
		resolvedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_host_failures_resolved_total",
				Help: "Host failures resolved silently during group propagation",
			},
			[]string{"mode"},
		),
		hostWarnings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_host_warnings_total",
				Help: "Host warnings collected by sessions",
			},
			[]string{"mode"},
		),
		detectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfill_room_detections_total",
				Help: "Room resolutions by detection method",
			},
			[]string{"mode", "method"},
		),
		estimatedWrites: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sfill_preview_estimated_writes",
				Help: "Writes estimated by the last preview, by operation",
			},
			[]string{"mode", "operation"},
		),
		runDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfill_run_duration_seconds",
				Help:    "Duration of execute runs",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"mode"},
		),
		previewDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfill_preview_duration_seconds",
				Help:    "Duration of preview runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		previewWarnings: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sfill_preview_warnings",
				Help: "Validation warnings reported by the last preview",
			},
			[]string{"mode"},
		),
	}
}

// Registry exposes the recorder's registry for export.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObservePreview records a preview result.
func (r *Recorder) ObservePreview(mode string, p *summary.PreviewSummary) {
	if p == nil {
		return
	}
	r.previewsTotal.WithLabelValues(mode).Inc()
	r.previewDuration.WithLabelValues(mode).Observe(p.Duration.Seconds())
	r.previewWarnings.WithLabelValues(mode).Set(float64(len(p.Warnings)))
	for op, n := range p.Estimated {
		r.estimatedWrites.WithLabelValues(mode, string(op)).Set(float64(n))
	}
}

// ObserveProcessing records an execute result, including rolled-back runs.
func (r *Recorder) ObserveProcessing(mode string, s *summary.ProcessingSummary) {
	if s == nil {
		return
	}
	r.runsTotal.WithLabelValues(mode, string(s.State)).Inc()
	r.runDuration.WithLabelValues(mode).Observe(s.Duration.Seconds())
	r.scannedTotal.WithLabelValues(mode).Add(float64(s.Scanned))
	r.resolvedTotal.WithLabelValues(mode).Add(float64(s.FailuresResolved))
	r.hostWarnings.WithLabelValues(mode).Add(float64(s.HostWarnings))
	for op, n := range s.Updated {
		r.writesTotal.WithLabelValues(mode, string(op)).Add(float64(n))
	}
	for reason, n := range s.Skipped {
		r.skipsTotal.WithLabelValues(mode, string(reason)).Add(float64(n))
	}
	for _, f := range s.Failures {
		r.failuresTotal.WithLabelValues(mode, string(f.Kind)).Inc()
	}
	for method, n := range s.Detections {
		r.detectionsTotal.WithLabelValues(mode, method).Add(float64(n))
	}
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
