package sse

import (
	"context"
	"log/slog"

	"github.com/vantail/collectroom/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.CardDelivered, s.handleCardDelivered)
	s.bus.Subscribe(event.CardRevealed, s.handleCardRevealed)
	s.bus.Subscribe(event.CardFiled, s.handleCardFiled)

	for _, t := range []event.Type{
		event.TransferCreated,
		event.TransferCancelled,
		event.TransferClaimed,
		event.TransferExpired,
	} {
		s.bus.Subscribe(t, s.handleTransfer)
	}

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			string(event.CardDelivered),
			string(event.CardRevealed),
			string(event.CardFiled),
			string(event.TransferCreated),
			string(event.TransferCancelled),
			string(event.TransferClaimed),
			string(event.TransferExpired),
		})
}

func (s *Subscriber) handleCardDelivered(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.CardDeliveredPayload)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeCardDelivered, CardNoticePayload{
		UserID: payload.UserID,
		CardID: payload.Card.ID,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeCardDelivered, "user_id", payload.UserID)
	return nil
}

func (s *Subscriber) handleCardRevealed(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.CardRevealedPayload)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeCardRevealed, CardNoticePayload{
		UserID:    payload.UserID,
		CardID:    payload.CardID,
		Band:      payload.Band,
		BandLabel: payload.Band.DisplayName(),
		IsGolden:  payload.IsGolden,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeCardRevealed,
		"user_id", payload.UserID, "band", payload.Band)
	return nil
}

func (s *Subscriber) handleCardFiled(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.CardFiledPayload)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(EventTypeCardFiled, CardNoticePayload{
		UserID: payload.UserID,
		CardID: payload.CardID,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeCardFiled, "user_id", payload.UserID)
	return nil
}

func (s *Subscriber) handleTransfer(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.TransferPayload)
	if !ok {
		slog.Warn(LogMsgInvalidPayload, "type", evt.Type)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), TransferNoticePayload{
		TransferID: payload.TransferID,
		FromUserID: payload.FromUserID,
		ToUserID:   payload.ToUserID,
		Mode:       payload.Mode,
	})

	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "transfer_id", payload.TransferID)
	return nil
}
