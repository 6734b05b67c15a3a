package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the server's Prometheus instrumentation.
type Metrics struct {
	Uploads        *prometheus.CounterVec
	UploadWarnings prometheus.Counter
	Syntheses      prometheus.Counter
	SynthesisSecs  prometheus.Histogram
	RequestSecs    *prometheus.HistogramVec
}

// NewMetrics registers the server metrics on reg. activeSessions feeds the
// live session gauge.
func NewMetrics(reg prometheus.Registerer, activeSessions func() float64) *Metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "spectron3000_sessions_active",
		Help: "Sessions currently held in the store.",
	}, activeSessions)

	return &Metrics{
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spectron3000_uploads_total",
			Help: "Uploads accepted, by kind.",
		}, []string{"kind"}),
		UploadWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "spectron3000_upload_warnings_total",
			Help: "Catalog lines rejected while parsing uploads.",
		}),
		Syntheses: factory.NewCounter(prometheus.CounterOpts{
			Name: "spectron3000_syntheses_total",
			Help: "Synthetic spectra computed.",
		}),
		SynthesisSecs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "spectron3000_synthesis_duration_seconds",
			Help:    "Time spent synthesizing one molecule.",
			Buckets: prometheus.DefBuckets,
		}),
		RequestSecs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spectron3000_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
