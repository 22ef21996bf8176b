package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPLatencyBuckets covers the interactive flows this service serves.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	CardsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCardsDelivered,
			Help: HelpTextCardsDelivered,
		},
	)

	CardsRevealed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCardsRevealed,
			Help: HelpTextCardsRevealed,
		},
		[]string{LabelBand, LabelGolden},
	)

	CardsFiled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCardsFiled,
			Help: HelpTextCardsFiled,
		},
	)

	TransfersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersCreated,
			Help: HelpTextTransfersCreated,
		},
		[]string{LabelMode},
	)

	TransfersClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersClaimed,
			Help: HelpTextTransfersClaimed,
		},
		[]string{LabelMode},
	)

	TransfersCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersCancelled,
			Help: HelpTextTransfersCancelled,
		},
		[]string{LabelMode},
	)

	TransfersExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransfersExpired,
			Help: HelpTextTransfersExpired,
		},
	)

	SSEConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEConnections,
			Help: HelpTextSSEConnections,
		},
	)
)
