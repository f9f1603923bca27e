package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	reportsGenerated *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	fetchErrors      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	scanDays         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		reportsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_reports_generated_total",
				Help: "Total number of reports generated, by kind",
			},
			[]string{"kind"},
		),
		deliveries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_deliveries_total",
				Help: "Total number of delivery attempts, by channel and status",
			},
			[]string{"channel", "status"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_fetch_errors_total",
				Help: "Total number of upstream fetch errors, by provider",
			},
			[]string{"provider"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketbrief_last_price",
				Help: "Last observed price for an asset symbol",
			},
			[]string{"symbol"},
		),
		scanDays: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_aggregation_days_total",
				Help: "Daily snapshots seen during period aggregation, by outcome",
			},
			[]string{"outcome"}, // loaded, missing, malformed
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketbrief_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordReportGenerated records one generated report.
func (r *Recorder) RecordReportGenerated(kind string) {
	r.reportsGenerated.WithLabelValues(kind).Inc()
}

// RecordDelivery records a delivery attempt outcome.
func (r *Recorder) RecordDelivery(channel, status string) {
	r.deliveries.WithLabelValues(channel, status).Inc()
}

// RecordFetchError records an upstream provider failure.
func (r *Recorder) RecordFetchError(provider string) {
	r.fetchErrors.WithLabelValues(provider).Inc()
}

// RecordLastPrice records the last observed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordScanDay records one day's outcome during a period scan.
func (r *Recorder) RecordScanDay(outcome string) {
	r.scanDays.WithLabelValues(outcome).Inc()
}

// RecordLatency records an operation duration.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
