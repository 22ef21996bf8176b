package freepull

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
)

// Store defines the persistence operations the free pull flow needs
type Store interface {
	LastPull(ctx context.Context, userID string, day time.Time) (*time.Time, error)
	// GrantPull records the day's pull and stores the card atomically.
	// Returns false when the day's pull was already taken.
	GrantPull(ctx context.Context, userID string, day time.Time, card domain.Card) (bool, error)
}

// Status reports whether the daily free pull is available to a user.
// Days roll over at midnight UTC; NextAvailable is advisory display only,
// the store's uniqueness guard is what enforces the limit.
type Status struct {
	CanClaim      bool       `json:"can_claim"`
	LastClaim     *time.Time `json:"last_claim,omitempty"`
	NextAvailable *time.Time `json:"next_available,omitempty"`
}

// Service hands out one free mystery card per user per day.
type Service interface {
	// Status reports whether the user can claim today's pull.
	Status(ctx context.Context, userID string) (Status, error)
	// Claim rolls a card from the free pool and delivers it unrevealed.
	// Returns domain.ErrFreePullUsed when today's pull is already taken.
	Claim(ctx context.Context, userID string) (domain.Card, error)
}

type service struct {
	store Store
	bus   event.Bus
	rnd   func() float64 // For rolling RNG
	now   func() time.Time
}

// NewService creates a free pull service.
func NewService(store Store, bus event.Bus) Service {
	return &service{
		store: store,
		bus:   bus,
		//nolint:gosec // G404: math/rand is fine for pull mechanics, nothing secret rides on it
		rnd: rand.Float64,
		now: time.Now,
	}
}

func (s *service) Status(ctx context.Context, userID string) (Status, error) {
	now := s.now()
	last, err := s.store.LastPull(ctx, userID, pullDay(now))
	if err != nil {
		return Status{}, fmt.Errorf("failed to check free pull: %w", err)
	}
	if last == nil {
		return Status{CanClaim: true}, nil
	}

	next := pullDay(now).AddDate(0, 0, 1)
	return Status{CanClaim: false, LastClaim: last, NextAvailable: &next}, nil
}

func (s *service) Claim(ctx context.Context, userID string) (domain.Card, error) {
	log := logger.FromContext(ctx)

	if _, err := uuid.Parse(userID); err != nil {
		return domain.Card{}, fmt.Errorf("%w: invalid user id %s", domain.ErrInvalidInput, userID)
	}

	now := s.now()
	card := s.rollCard(userID, now)

	granted, err := s.store.GrantPull(ctx, userID, pullDay(now), card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to grant free pull: %w", err)
	}
	if !granted {
		log.Info(LogMsgFreePullRefused, "user_id", userID)
		return domain.Card{}, domain.ErrFreePullUsed
	}

	// The delivery event feeds the reveal queue and the SSE stream the same
	// way a purchased box does.
	if err := s.bus.Publish(ctx, event.NewCardDeliveredEvent(userID, card)); err != nil {
		log.Error("Failed to publish free pull delivery", "error", err, "card_id", card.ID)
	}

	log.Info(LogMsgFreePullClaimed, "user_id", userID, "card_id", card.ID, "band", card.Band, "golden", card.IsGolden)
	return card, nil
}

// rollCard draws a product and rarity for a free pull.
func (s *service) rollCard(userID string, now time.Time) domain.Card {
	tmpl := pullPool[int(s.rnd()*float64(len(pullPool)))%len(pullPool)]

	score := int(s.rnd() * 100)
	if score > 99 {
		score = 99
	}
	band := domain.BandForScore(score)
	golden := s.rnd() < GoldenPullRate

	rewards := &domain.CardRewards{
		Points:   pointsForBand(band),
		Progress: domain.ShardProgress{ShardsEarned: shardsForBand(band)},
	}
	if golden {
		// A golden pull completes its product outright.
		rewards.Progress.ShardsEarned = domain.MaxShardsPerCard
	}

	return domain.Card{
		ID:           uuid.NewString(),
		Brand:        tmpl.Brand,
		Model:        tmpl.Model,
		ProductImage: tmpl.ProductImage,
		ProductValue: tmpl.ProductValue,
		RarityScore:  score,
		Band:         band,
		IsGolden:     golden,
		SerialNumber: fmt.Sprintf("FP-%06d", int(s.rnd()*1000000)),
		OwnerID:      userID,
		PulledAt:     now,
		Rewards:      rewards,
		State:        domain.StateOwned,
	}
}

// pullDay truncates a moment to its UTC calendar day.
func pullDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
