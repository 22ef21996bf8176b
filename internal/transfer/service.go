package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
)

// Store defines the persistence operations the transfer flow needs
type Store interface {
	GetCard(ctx context.Context, cardID string) (*domain.Card, error)
	CreateTransfer(ctx context.Context, grant domain.TransferGrant) error
	GetTransferByToken(ctx context.Context, token string) (*domain.TransferGrant, error)
	GetTransferDetails(ctx context.Context, token string) (*domain.TransferDetails, error)
	// ClaimTransfer and CancelTransfer succeed only while the grant is still
	// pending; the store enforces that atomically and returns the updated
	// grant.
	ClaimTransfer(ctx context.Context, transferID, claimantID, offeredCardID string) (*domain.TransferGrant, error)
	CancelTransfer(ctx context.Context, transferID, userID string) (*domain.TransferGrant, error)
	ListPendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error)
	ExpireDue(ctx context.Context, now time.Time) ([]domain.TransferGrant, error)
}

// Service drives both sides of a card transfer: the originator's send
// session and the recipient's claim flow.
type Service interface {
	// BeginSession validates the card and opens a send session in the
	// confirm phase. Nothing is created server-side yet. recipientID is
	// optional; when set, only that user can claim the resulting grant.
	BeginSession(ctx context.Context, userID, cardID string, mode domain.TransferMode, recipientID string) (*Session, error)
	// ConfirmSession creates the grant and moves the session to success,
	// or to the error phase when creation fails. Retryable from error.
	ConfirmSession(ctx context.Context, session *Session) error
	// RevokeGrant cancels a pending grant. Only the originator may revoke.
	RevokeGrant(ctx context.Context, userID, transferID string) error
	// PendingTransfers lists the user's outstanding grants.
	PendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error)
	// ResolveToken looks up what a claim link points at. The second result
	// reports whether the viewer is the grant's originator.
	ResolveToken(ctx context.Context, userID, token string) (*domain.TransferDetails, bool, error)
	// ClaimGift claims a gift grant and returns the received card.
	ClaimGift(ctx context.Context, userID, token string) (*domain.Card, error)
	// ClaimSwap claims a swap grant, giving up the offered card, and
	// returns the received card.
	ClaimSwap(ctx context.Context, userID, token, offeredCardID string) (*domain.Card, error)
}

type service struct {
	store        Store
	bus          event.Bus
	cache        *detailsCache
	claimBaseURL string
	ttl          time.Duration
	now          func() time.Time
}

// NewService creates a transfer service. claimBaseURL is the public prefix
// share links are built from; ttl is how long a new grant stays claimable.
func NewService(store Store, bus event.Bus, claimBaseURL string, ttl time.Duration) Service {
	return &service{
		store:        store,
		bus:          bus,
		cache:        newDetailsCache(DetailsCacheSize, DetailsCacheTTL),
		claimBaseURL: strings.TrimRight(claimBaseURL, "/"),
		ttl:          ttl,
		now:          time.Now,
	}
}

func (s *service) BeginSession(ctx context.Context, userID, cardID string, mode domain.TransferMode, recipientID string) (*Session, error) {
	log := logger.FromContext(ctx)

	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown transfer mode %q", domain.ErrInvalidInput, mode)
	}
	if _, err := uuid.Parse(cardID); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, cardID)
	}
	if recipientID != "" {
		if _, err := uuid.Parse(recipientID); err != nil {
			return nil, fmt.Errorf("%w: invalid recipient id %s", domain.ErrInvalidInput, recipientID)
		}
		if recipientID == userID {
			return nil, fmt.Errorf("%w: cannot address a transfer to yourself", domain.ErrInvalidInput)
		}
	}

	if err := s.checkSendable(ctx, userID, cardID); err != nil {
		return nil, err
	}

	log.Info(LogMsgSessionStarted, "user_id", userID, "card_id", cardID, "mode", mode, "recipient_id", recipientID)
	return &Session{
		state:       SessionConfirm,
		userID:      userID,
		cardID:      cardID,
		mode:        mode,
		recipientID: recipientID,
	}, nil
}

func (s *service) ConfirmSession(ctx context.Context, session *Session) error {
	log := logger.FromContext(ctx)

	if err := session.beginGenerating(); err != nil {
		return err
	}

	grant, err := s.createGrant(ctx, session)
	if err != nil {
		session.fail(err.Error())
		log.Error(LogMsgGrantCreateFailed, "error", err, "card_id", session.cardID)
		return err
	}

	// A session only reaches success with a usable grant in hand.
	if grant.ClaimToken == "" || !grant.ExpiresAt.After(s.now()) {
		err := fmt.Errorf("%w: grant came back unusable", domain.ErrTransport)
		session.fail(err.Error())
		return err
	}

	session.succeed(grant, s.claimBaseURL+"/"+grant.ClaimToken)

	if err := s.bus.Publish(ctx, event.NewTransferEvent(event.TransferCreated, grant)); err != nil {
		log.Error("Failed to publish transfer created event", "error", err, "transfer_id", grant.ID)
	}

	log.Info(LogMsgGrantCreated, "transfer_id", grant.ID, "mode", grant.Mode, "expires_at", grant.ExpiresAt)
	return nil
}

func (s *service) createGrant(ctx context.Context, session *Session) (domain.TransferGrant, error) {
	// Revalidate: the card may have been staked or transferred since the
	// confirm screen opened.
	if err := s.checkSendable(ctx, session.userID, session.cardID); err != nil {
		return domain.TransferGrant{}, err
	}

	token, err := GenerateClaimToken()
	if err != nil {
		return domain.TransferGrant{}, err
	}

	now := s.now()
	grant := domain.TransferGrant{
		ID:         uuid.NewString(),
		CardID:     session.cardID,
		FromUserID: session.userID,
		ToUserID:   session.recipientID,
		Mode:       session.mode,
		ClaimToken: token,
		Status:     domain.TransferPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.store.CreateTransfer(ctx, grant); err != nil {
		return domain.TransferGrant{}, fmt.Errorf("failed to create transfer: %w", err)
	}
	return grant, nil
}

func (s *service) RevokeGrant(ctx context.Context, userID, transferID string) error {
	log := logger.FromContext(ctx)

	grant, err := s.store.CancelTransfer(ctx, transferID, userID)
	if err != nil {
		return err
	}

	s.cache.Invalidate(grant.ClaimToken)

	if err := s.bus.Publish(ctx, event.NewTransferEvent(event.TransferCancelled, *grant)); err != nil {
		log.Error("Failed to publish transfer cancelled event", "error", err, "transfer_id", grant.ID)
	}

	log.Info(LogMsgGrantCancelled, "transfer_id", grant.ID)
	return nil
}

func (s *service) PendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error) {
	return s.store.ListPendingTransfers(ctx, userID)
}

func (s *service) ResolveToken(ctx context.Context, userID, token string) (*domain.TransferDetails, bool, error) {
	log := logger.FromContext(ctx)

	if err := ValidateClaimToken(token); err != nil {
		return nil, false, err
	}

	if details, ok := s.cache.Get(token); ok {
		log.Debug(LogMsgDetailsCacheHit, "transfer_id", details.ID)
		return details, details.FromUserID == userID, nil
	}

	details, err := s.store.GetTransferDetails(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if details == nil {
		return nil, false, domain.ErrTransferNotFound
	}

	s.cache.Set(token, details)
	return details, details.FromUserID == userID, nil
}

func (s *service) ClaimGift(ctx context.Context, userID, token string) (*domain.Card, error) {
	return s.claim(ctx, userID, token, "", domain.TransferGift)
}

func (s *service) ClaimSwap(ctx context.Context, userID, token, offeredCardID string) (*domain.Card, error) {
	if _, err := uuid.Parse(offeredCardID); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, offeredCardID)
	}
	if err := s.checkSendable(ctx, userID, offeredCardID); err != nil {
		return nil, err
	}
	return s.claim(ctx, userID, token, offeredCardID, domain.TransferSwap)
}

func (s *service) claim(ctx context.Context, userID, token, offeredCardID string, mode domain.TransferMode) (*domain.Card, error) {
	log := logger.FromContext(ctx)

	if err := ValidateClaimToken(token); err != nil {
		return nil, err
	}

	grant, err := s.store.GetTransferByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, domain.ErrTransferNotFound
	}
	if grant.Mode != mode {
		return nil, fmt.Errorf("%w: transfer is a %s, not a %s", domain.ErrInvalidInput, grant.Mode, mode)
	}

	// Refuse locally before touching the grant. The store re-checks all of
	// this under its own guard; these checks just give precise errors.
	if grant.FromUserID == userID {
		log.Warn(LogMsgOwnClaimRefused, "transfer_id", grant.ID, "user_id", userID)
		return nil, domain.ErrOwnTransfer
	}
	// An addressed grant is invisible to anyone but its intended recipient.
	if grant.ToUserID != "" && grant.Status == domain.TransferPending && grant.ToUserID != userID {
		log.Warn(LogMsgWrongRecipient, "transfer_id", grant.ID, "user_id", userID)
		return nil, domain.ErrTransferNotFound
	}
	switch grant.Status {
	case domain.TransferClaimed:
		return nil, domain.ErrTransferClaimed
	case domain.TransferCancelled:
		return nil, domain.ErrTransferCancelled
	case domain.TransferExpired:
		return nil, domain.ErrTransferExpired
	}
	if grant.Expired(s.now()) {
		return nil, domain.ErrTransferExpired
	}

	claimed, err := s.store.ClaimTransfer(ctx, grant.ID, userID, offeredCardID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(token)

	if err := s.bus.Publish(ctx, event.NewTransferEvent(event.TransferClaimed, *claimed)); err != nil {
		log.Error("Failed to publish transfer claimed event", "error", err, "transfer_id", claimed.ID)
	}

	card, err := s.store.GetCard(ctx, claimed.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, domain.ErrCardNotFound
	}

	log.Info(LogMsgGrantClaimed, "transfer_id", claimed.ID, "mode", claimed.Mode, "claimed_by", userID)
	return card, nil
}

// checkSendable verifies the user can move custody of the card right now.
func (s *service) checkSendable(ctx context.Context, userID, cardID string) error {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return domain.ErrCardNotFound
	}
	if card.OwnerID != userID {
		return domain.ErrCardNotOwned
	}
	if card.State == domain.StateStaked {
		return domain.ErrCardStaked
	}
	if !card.Transferable() {
		return fmt.Errorf("%w: card in state %s cannot be transferred", domain.ErrInvalidInput, card.State)
	}
	return nil
}
