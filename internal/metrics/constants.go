package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameCardsDelivered     = "cards_delivered_total"
	MetricNameCardsRevealed      = "cards_revealed_total"
	MetricNameCardsFiled         = "cards_filed_total"
	MetricNameTransfersCreated   = "transfers_created_total"
	MetricNameTransfersClaimed   = "transfers_claimed_total"
	MetricNameTransfersCancelled = "transfers_cancelled_total"
	MetricNameTransfersExpired   = "transfers_expired_total"
	MetricNameSSEConnections     = "sse_connections_active"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextCardsDelivered     = "Total number of cards delivered for reveal"
	HelpTextCardsRevealed      = "Total number of cards revealed"
	HelpTextCardsFiled         = "Total number of cards filed into collections"
	HelpTextTransfersCreated   = "Total number of transfer grants created"
	HelpTextTransfersClaimed   = "Total number of transfer grants claimed"
	HelpTextTransfersCancelled = "Total number of transfer grants cancelled by their originator"
	HelpTextTransfersExpired   = "Total number of transfer grants expired unclaimed"
	HelpTextSSEConnections     = "Current number of connected SSE clients"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelBand   = "band"
	LabelGolden = "golden"
	LabelMode   = "mode"
)

// Log messages
const (
	LogMsgEventPayloadUnexpected = "Unexpected event payload type for metrics"
)
