package metrics

import (
	"context"
	"strconv"

	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.CardDelivered,
		event.CardRevealed,
		event.CardFiled,
		event.TransferCreated,
		event.TransferClaimed,
		event.TransferCancelled,
		event.TransferExpired,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CardDelivered:
		CardsDelivered.Inc()

	case event.CardRevealed:
		payload, ok := evt.Payload.(event.CardRevealedPayload)
		if !ok {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type)
			return nil
		}
		CardsRevealed.WithLabelValues(string(payload.Band), strconv.FormatBool(payload.IsGolden)).Inc()

	case event.CardFiled:
		CardsFiled.Inc()

	case event.TransferCreated, event.TransferClaimed, event.TransferCancelled:
		payload, ok := evt.Payload.(event.TransferPayload)
		if !ok {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type)
			return nil
		}
		switch evt.Type {
		case event.TransferCreated:
			TransfersCreated.WithLabelValues(string(payload.Mode)).Inc()
		case event.TransferClaimed:
			TransfersClaimed.WithLabelValues(string(payload.Mode)).Inc()
		case event.TransferCancelled:
			TransfersCancelled.WithLabelValues(string(payload.Mode)).Inc()
		}

	case event.TransferExpired:
		TransfersExpired.Inc()
	}

	return nil
}
