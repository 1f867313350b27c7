// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Decode metrics
	TransactionsProcessed prometheus.Counter
	EventsDecoded         *prometheus.CounterVec
	EventsMerged          prometheus.Counter
	ErrorEvents           prometheus.Counter
	DecodeLatency         prometheus.Histogram

	// Delivery metrics
	EventsDelivered prometheus.Counter
	QueueDrops      prometheus.Counter
	QueueDepth      prometheus.Gauge

	// Stream metrics
	WSMessages      prometheus.Counter
	WSReconnects    prometheus.Counter
	HighestSlotSeen prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sol_dex_stream"
	}

	return &Metrics{
		// Decode metrics
		TransactionsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "transactions_processed_total",
			Help:      "Total number of transactions run through the decode pipeline",
		}),
		EventsDecoded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "events_decoded_total",
			Help:      "Total number of partial events decoded by kind and origin",
		}, []string{"kind", "origin"}),
		EventsMerged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "events_merged_total",
			Help:      "Total number of instruction/log event pairs reconciled",
		}),
		ErrorEvents: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "error_events_total",
			Help:      "Total number of error events emitted for unrecognized program references",
		}),
		DecodeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "latency_seconds",
			Help:      "Per-transaction decode and merge latency in seconds",
			Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),

		// Delivery metrics
		EventsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "events_delivered_total",
			Help:      "Total number of events pushed to the delivery queue",
		}),
		QueueDrops: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "drops_total",
			Help:      "Total number of events dropped on a full delivery queue",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Current number of events waiting in the delivery queue",
		}),

		// Stream metrics
		WSMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "ws_messages_total",
			Help:      "Total number of WebSocket notifications received",
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnect attempts",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransaction records one completed decode pass.
func RecordTransaction(latencySeconds float64) {
	DefaultMetrics.TransactionsProcessed.Inc()
	DefaultMetrics.DecodeLatency.Observe(latencySeconds)
}

// RecordEventDecoded increments the decoded events counter.
func RecordEventDecoded(kind, origin string) {
	DefaultMetrics.EventsDecoded.WithLabelValues(kind, origin).Inc()
}

// RecordEventsMerged adds reconciled instruction/log pairs.
func RecordEventsMerged(n int) {
	DefaultMetrics.EventsMerged.Add(float64(n))
}

// RecordErrorEvent increments the error events counter.
func RecordErrorEvent() {
	DefaultMetrics.ErrorEvents.Inc()
}

// RecordDelivered increments the delivered events counter.
func RecordDelivered() {
	DefaultMetrics.EventsDelivered.Inc()
}

// RecordQueueDrop increments the queue drop counter.
func RecordQueueDrop() {
	DefaultMetrics.QueueDrops.Inc()
}

// UpdateQueueDepth updates the queue depth gauge.
func UpdateQueueDepth(depth int) {
	DefaultMetrics.QueueDepth.Set(float64(depth))
}

// RecordWSMessage increments the WebSocket message counter.
func RecordWSMessage() {
	DefaultMetrics.WSMessages.Inc()
}

// RecordWSReconnect increments the WebSocket reconnect counter.
func RecordWSReconnect() {
	DefaultMetrics.WSReconnects.Inc()
}

// UpdateHighestSlot updates the highest slot seen gauge.
func UpdateHighestSlot(slot uint64) {
	DefaultMetrics.HighestSlotSeen.Set(float64(slot))
}
