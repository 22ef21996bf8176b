package repository

import (
	"context"

	"github.com/vantail/collectroom/internal/domain"
)

// Collection defines the interface for card persistence
type Collection interface {
	GetCard(ctx context.Context, cardID string) (*domain.Card, error)
	InsertCard(ctx context.Context, card domain.Card) error
	FetchOwnedCards(ctx context.Context, userID string) ([]domain.Card, error)
	FetchUnrevealedCards(ctx context.Context, userID string) ([]domain.Card, error)
	MarkCardSeen(ctx context.Context, cardID string) error
}
