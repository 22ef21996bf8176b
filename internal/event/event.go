package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vantail/collectroom/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types emitted by the core services. The reveal service and the SSE
// bridge subscribe to these; nothing reads ambient shared state to learn
// about collection changes.
const (
	// CardDelivered fires when a purchase or free pull resolves into a new
	// unrevealed card for a user.
	CardDelivered Type = "card.delivered"
	// CardRevealed fires when a card is pulled from the queue and shown.
	CardRevealed Type = "card.revealed"
	// CardFiled fires when a revealed card is filed into the collection.
	CardFiled Type = "card.filed"

	TransferCreated   Type = "transfer.created"
	TransferCancelled Type = "transfer.cancelled"
	TransferClaimed   Type = "transfer.claimed"
	TransferExpired   Type = "transfer.expired"
)

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// CardDeliveredPayload carries a freshly delivered, unrevealed card.
type CardDeliveredPayload struct {
	UserID    string      `json:"user_id"`
	Card      domain.Card `json:"card"`
	Timestamp int64       `json:"timestamp"`
}

// CardRevealedPayload describes a card shown to its owner for the first time.
type CardRevealedPayload struct {
	UserID    string            `json:"user_id"`
	CardID    string            `json:"card_id"`
	Band      domain.RarityBand `json:"band"`
	IsGolden  bool              `json:"is_golden"`
	Timestamp int64             `json:"timestamp"`
}

// CardFiledPayload describes a card filed into the collection view.
type CardFiledPayload struct {
	UserID    string `json:"user_id"`
	CardID    string `json:"card_id"`
	Timestamp int64  `json:"timestamp"`
}

// TransferPayload describes a transfer grant lifecycle change. The claim
// token is deliberately omitted: it is a credential and only travels to the
// originator who created it.
type TransferPayload struct {
	TransferID string              `json:"transfer_id"`
	CardID     string              `json:"card_id"`
	FromUserID string              `json:"from_user_id"`
	ToUserID   string              `json:"to_user_id,omitempty"`
	Mode       domain.TransferMode `json:"mode"`
	Timestamp  int64               `json:"timestamp"`
}

// NewCardDeliveredEvent builds a card.delivered event.
func NewCardDeliveredEvent(userID string, card domain.Card) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CardDelivered,
		Payload: CardDeliveredPayload{
			UserID:    userID,
			Card:      card,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewCardRevealedEvent builds a card.revealed event.
func NewCardRevealedEvent(userID string, card domain.Card) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CardRevealed,
		Payload: CardRevealedPayload{
			UserID:    userID,
			CardID:    card.ID,
			Band:      card.Band,
			IsGolden:  card.IsGolden,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewCardFiledEvent builds a card.filed event.
func NewCardFiledEvent(userID, cardID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CardFiled,
		Payload: CardFiledPayload{
			UserID:    userID,
			CardID:    cardID,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewTransferEvent builds a transfer lifecycle event of the given type.
func NewTransferEvent(t Type, grant domain.TransferGrant) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: TransferPayload{
			TransferID: grant.ID,
			CardID:     grant.CardID,
			FromUserID: grant.FromUserID,
			ToUserID:   grant.ToUserID,
			Mode:       grant.Mode,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers execute
// synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
