package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/metrics"
	"github.com/vantail/collectroom/internal/sse"
)

// InitializeEventSystem creates the in-process event bus and attaches the
// cross-cutting subscribers:
// - Metrics collector (event-based Prometheus counters)
// - SSE bridge (fans events out to connected browser streams)
// Returns the bus and the SSE hub (caller owns its lifecycle).
func InitializeEventSystem() (event.Bus, *sse.Hub, error) {
	eventBus := event.NewMemoryBus()

	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(eventBus); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	hub := sse.NewHub()
	subscriber := sse.NewSubscriber(hub, eventBus)
	subscriber.Subscribe()
	slog.Info(LogMsgEventStreamSubscribed)

	return eventBus, hub, nil
}
