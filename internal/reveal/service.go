package reveal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
)

var (
	// ErrNoPendingCards signals the queue is empty and a purchase is needed
	// before another card can be opened.
	ErrNoPendingCards = errors.New(ErrMsgQueueEmpty)
	// ErrNoCurrentCard signals a reveal or file was requested with no card
	// in flight.
	ErrNoCurrentCard = errors.New(ErrMsgNoCurrentCard)
)

// CollectionStore defines the persistence operations the reveal flow needs
type CollectionStore interface {
	FetchOwnedCards(ctx context.Context, userID string) ([]domain.Card, error)
	FetchUnrevealedCards(ctx context.Context, userID string) ([]domain.Card, error)
	MarkCardSeen(ctx context.Context, cardID string) error
}

// FileResult reports the outcome of filing a card. Warning carries a
// non-fatal problem (the card is filed locally either way) so the caller can
// surface it without failing the flow.
type FileResult struct {
	Card    domain.Card `json:"card"`
	Warning string      `json:"warning,omitempty"`
}

// Snapshot is a point-in-time view of the reveal flow for one user.
type Snapshot struct {
	UserID       string       `json:"user_id"`
	Screen       ScreenState  `json:"screen"`
	PendingCount int          `json:"pending_count"`
	Current      *domain.Card `json:"current,omitempty"`
	Latest       *domain.Card `json:"latest,omitempty"`
}

// Service drives the full reveal flow for the active user: the queue of
// unrevealed cards, the card currently being unboxed, and the unboxing
// screen phases.
type Service interface {
	// SetUser switches the active user, discarding all reveal state for the
	// previous one, and loads the new user's collection and pending cards.
	SetUser(ctx context.Context, userID string) error
	// OpenNext pulls the oldest pending card and starts unboxing it.
	// Returns ErrNoPendingCards when the queue is empty.
	OpenNext(ctx context.Context) (domain.Card, error)
	// Reveal flips the current card face up.
	Reveal(ctx context.Context) (domain.Card, error)
	// File moves the current card into the collection and finalizes it.
	File(ctx context.Context) (FileResult, error)
	// SyncUnrevealed refreshes the pending queue from the store.
	SyncUnrevealed(ctx context.Context) error
	// Collection returns the last synced owned-card snapshot.
	Collection() []domain.Card
	// Snapshot returns the current reveal state.
	Snapshot() Snapshot
}

type service struct {
	store CollectionStore
	bus   event.Bus

	mu      sync.Mutex
	userID  string
	queue   *Queue
	tracker *Tracker
	screen  *Screen
	owned   []domain.Card
}

// NewService creates a reveal service and subscribes it to card deliveries
// on the bus.
func NewService(store CollectionStore, bus event.Bus) Service {
	s := &service{
		store:   store,
		bus:     bus,
		queue:   NewQueue(),
		tracker: NewTracker(),
		screen:  NewScreen(),
	}
	bus.Subscribe(event.CardDelivered, s.handleCardDelivered)
	return s
}

func (s *service) SetUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID != userID {
		s.queue.Reset()
		s.tracker.Clear()
		s.screen.Reset()
		s.owned = nil
		s.userID = userID
	}

	if err := s.syncOwnedLocked(ctx); err != nil {
		return err
	}
	return s.syncUnrevealedLocked(ctx)
}

func (s *service) OpenNext(ctx context.Context) (domain.Card, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queue.HasPending() {
		return domain.Card{}, ErrNoPendingCards
	}
	if err := s.screen.Begin(); err != nil {
		return domain.Card{}, err
	}

	card, _ := s.queue.DequeueNext()
	s.tracker.SetCurrent(card)

	log.Info(LogMsgCardOpened, "card_id", card.ID, "remaining", s.queue.Len())
	return card, nil
}

func (s *service) Reveal(ctx context.Context) (domain.Card, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.tracker.Current()
	if current == nil {
		return domain.Card{}, ErrNoCurrentCard
	}
	if err := s.screen.Reveal(current.IsGolden); err != nil {
		return domain.Card{}, err
	}

	if err := s.bus.Publish(ctx, event.NewCardRevealedEvent(s.userID, *current)); err != nil {
		log.Error("Failed to publish reveal event", "error", err, "card_id", current.ID)
	}

	log.Info(LogMsgCardRevealed, "card_id", current.ID, "band", current.Band, "golden", current.IsGolden)
	return *current, nil
}

func (s *service) File(ctx context.Context) (FileResult, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.tracker.Current()
	if current == nil {
		return FileResult{}, ErrNoCurrentCard
	}
	if err := s.screen.File(); err != nil {
		return FileResult{}, err
	}

	var warning string
	if err := s.store.MarkCardSeen(ctx, current.ID); err != nil {
		// The server never heard about the reveal; keep going so the user
		// is not stuck on the reveal screen, and let SyncUnrevealed
		// reconcile later.
		warning = fmt.Sprintf("card filed locally, server update failed: %v", err)
		log.Warn(LogMsgMarkSeenFailed, "card_id", current.ID, "error", err)
	}

	card, _ := s.tracker.Finalize()
	s.queue.MarkFinalized(card.ID)

	if err := s.syncOwnedLocked(ctx); err != nil {
		if warning == "" {
			warning = fmt.Sprintf("collection refresh failed: %v", err)
		}
		log.Warn(LogMsgResyncFailed, "error", err)
	} else if !s.ownsLocked(card.ID) {
		// The refresh came back without the card that was just filed. The
		// server may simply be lagging the write, so stay on the happy path
		// and tell the user to refresh rather than failing the flow.
		if warning == "" {
			warning = WarnMsgFiledCardNotVisible
		}
		log.Warn(LogMsgFiledCardMissing, "card_id", card.ID)
	}

	if err := s.bus.Publish(ctx, event.NewCardFiledEvent(s.userID, card.ID)); err != nil {
		log.Error("Failed to publish file event", "error", err, "card_id", card.ID)
	}

	log.Info(LogMsgCardFiled, "card_id", card.ID)
	return FileResult{Card: card, Warning: warning}, nil
}

func (s *service) SyncUnrevealed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncUnrevealedLocked(ctx)
}

func (s *service) Collection() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]domain.Card, len(s.owned))
	copy(cards, s.owned)
	return cards
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		UserID:       s.userID,
		Screen:       s.screen.State(),
		PendingCount: s.queue.Len(),
	}
	if c := s.tracker.Current(); c != nil {
		card := *c
		snap.Current = &card
	}
	if l := s.tracker.Latest(); l != nil {
		card := *l
		snap.Latest = &card
	}
	return snap
}

// syncUnrevealedLocked replaces the pending queue from the store. Caller
// must hold s.mu.
func (s *service) syncUnrevealedLocked(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cards, err := s.store.FetchUnrevealedCards(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to fetch unrevealed cards: %w", err)
	}

	s.queue.Replace(cards)
	log.Info(LogMsgSyncedUnrevealed, "user_id", s.userID, "pending", s.queue.Len())
	return nil
}

// ownsLocked reports whether the owned snapshot contains the card. Caller
// must hold s.mu.
func (s *service) ownsLocked(cardID string) bool {
	for _, c := range s.owned {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// syncOwnedLocked refreshes the owned-card snapshot. Caller must hold s.mu.
func (s *service) syncOwnedLocked(ctx context.Context) error {
	cards, err := s.store.FetchOwnedCards(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to fetch owned cards: %w", err)
	}
	s.owned = cards
	return nil
}

// handleCardDelivered enqueues deliveries for the active user as they arrive
// on the bus.
func (s *service) handleCardDelivered(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, ok := evt.Payload.(event.CardDeliveredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s event", evt.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if payload.UserID != s.userID {
		log.Debug(LogMsgDeliveryIgnored, "user_id", payload.UserID)
		return nil
	}

	if s.queue.Enqueue(payload.Card) {
		log.Info(LogMsgCardEnqueued, "card_id", payload.Card.ID, "pending", s.queue.Len())
	} else {
		log.Debug(LogMsgCardSkipped, "card_id", payload.Card.ID)
	}
	return nil
}
