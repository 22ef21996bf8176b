package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/transfer"
)

// stubTransferStore backs the transfer service in handler tests.
type stubTransferStore struct {
	cards     map[string]*domain.Card
	grants    map[string]*domain.TransferGrant
	createErr error
}

func newStubTransferStore() *stubTransferStore {
	return &stubTransferStore{
		cards:  make(map[string]*domain.Card),
		grants: make(map[string]*domain.TransferGrant),
	}
}

func (s *stubTransferStore) addCard(card domain.Card) {
	c := card
	s.cards[card.ID] = &c
}

func (s *stubTransferStore) addGrant(grant domain.TransferGrant) {
	g := grant
	s.grants[grant.ID] = &g
}

func (s *stubTransferStore) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	card, ok := s.cards[cardID]
	if !ok {
		return nil, nil
	}
	c := *card
	return &c, nil
}

func (s *stubTransferStore) CreateTransfer(ctx context.Context, grant domain.TransferGrant) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.addGrant(grant)
	return nil
}

func (s *stubTransferStore) GetTransferByToken(ctx context.Context, token string) (*domain.TransferGrant, error) {
	for _, grant := range s.grants {
		if grant.ClaimToken == token {
			g := *grant
			return &g, nil
		}
	}
	return nil, nil
}

func (s *stubTransferStore) GetTransferDetails(ctx context.Context, token string) (*domain.TransferDetails, error) {
	grant, _ := s.GetTransferByToken(ctx, token)
	if grant == nil {
		return nil, nil
	}
	details := &domain.TransferDetails{
		ID:         grant.ID,
		FromUserID: grant.FromUserID,
		Mode:       grant.Mode,
		Status:     grant.Status,
		ExpiresAt:  grant.ExpiresAt,
	}
	if card, ok := s.cards[grant.CardID]; ok {
		details.Card = domain.TransferCardSummary{
			CardID: card.ID,
			Brand:  card.Brand,
			Model:  card.Model,
			Band:   card.Band,
		}
	}
	return details, nil
}

func (s *stubTransferStore) ClaimTransfer(ctx context.Context, transferID, claimantID, offeredCardID string) (*domain.TransferGrant, error) {
	grant, ok := s.grants[transferID]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	if grant.Status != domain.TransferPending {
		return nil, domain.ErrTransferClaimed
	}
	grant.Status = domain.TransferClaimed
	grant.ClaimedByID = claimantID
	grant.ToUserID = claimantID
	if card, ok := s.cards[grant.CardID]; ok {
		card.OwnerID = claimantID
	}
	if offeredCardID != "" {
		if card, ok := s.cards[offeredCardID]; ok {
			card.OwnerID = grant.FromUserID
		}
	}
	g := *grant
	return &g, nil
}

func (s *stubTransferStore) CancelTransfer(ctx context.Context, transferID, userID string) (*domain.TransferGrant, error) {
	grant, ok := s.grants[transferID]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	if grant.FromUserID != userID {
		return nil, domain.ErrNotOriginator
	}
	if grant.Status != domain.TransferPending {
		return nil, domain.ErrTransferCancelled
	}
	grant.Status = domain.TransferCancelled
	g := *grant
	return &g, nil
}

func (s *stubTransferStore) ListPendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error) {
	var grants []domain.TransferGrant
	for _, grant := range s.grants {
		if grant.FromUserID == userID && grant.Status == domain.TransferPending {
			grants = append(grants, *grant)
		}
	}
	return grants, nil
}

func (s *stubTransferStore) ExpireDue(ctx context.Context, now time.Time) ([]domain.TransferGrant, error) {
	var expired []domain.TransferGrant
	for _, grant := range s.grants {
		if grant.Status == domain.TransferPending && grant.Expired(now) {
			grant.Status = domain.TransferExpired
			expired = append(expired, *grant)
		}
	}
	return expired, nil
}

func newTransferHandler(store *stubTransferStore) *TransferHandler {
	svc := transfer.NewService(store, event.NewMemoryBus(), "https://example.test/claim", 48*time.Hour)
	return NewTransferHandler(svc)
}

func ownedCard(owner string) domain.Card {
	return domain.Card{
		ID:      uuid.NewString(),
		Brand:   "Grand Seiko",
		Model:   "Snowflake",
		Band:    domain.BandGrail,
		OwnerID: owner,
		State:   domain.StateOwned,
	}
}

func postJSON(handler http.HandlerFunc, target string, reqBody interface{}) *httptest.ResponseRecorder {
	var body []byte
	if s, ok := reqBody.(string); ok {
		body = []byte(s)
	} else {
		body, _ = json.Marshal(reqBody)
	}
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("POST", target, bytes.NewBuffer(body)))
	return rec
}

func TestHandleBeginSession(t *testing.T) {
	card := ownedCard("alice")
	staked := ownedCard("alice")
	staked.State = domain.StateStaked

	store := newStubTransferStore()
	store.addCard(card)
	store.addCard(staked)

	tests := []struct {
		name           string
		reqBody        interface{}
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Unknown Mode",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: card.ID, Mode: "loan"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name:           "Malformed Card ID",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: "not-a-uuid", Mode: "gift"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name:           "Card Not Found",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: uuid.NewString(), Mode: "gift"},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgCardNotFoundError,
		},
		{
			name:           "Not Owner",
			reqBody:        BeginSessionRequest{UserID: "bob", CardID: card.ID, Mode: "gift"},
			expectedStatus: http.StatusForbidden,
			expectedBody:   ErrMsgCardNotOwnedError,
		},
		{
			name:           "Card Staked",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: staked.ID, Mode: "gift"},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgCardStakedError,
		},
		{
			name:           "Malformed Recipient ID",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: card.ID, Mode: "gift", RecipientID: "not-a-uuid"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name:           "Success",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: card.ID, Mode: "gift"},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"state":"confirm"`,
		},
		{
			name:           "Success With Recipient",
			reqBody:        BeginSessionRequest{UserID: "alice", CardID: card.ID, Mode: "gift", RecipientID: uuid.NewString()},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"recipient_id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransferHandler(store)
			rec := postJSON(handler.HandleBeginSession, "/transfers/session", tt.reqBody)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func beginSession(t *testing.T, handler *TransferHandler, userID, cardID, mode string) string {
	t.Helper()

	rec := postJSON(handler.HandleBeginSession, "/transfers/session", BeginSessionRequest{
		UserID: userID,
		CardID: cardID,
		Mode:   mode,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.SessionID
}

func TestHandleConfirmSession(t *testing.T) {
	t.Run("Unknown Session", func(t *testing.T) {
		handler := newTransferHandler(newStubTransferStore())
		rec := postJSON(handler.HandleConfirmSession, "/transfers/session/confirm", SessionActionRequest{
			SessionID: uuid.NewString(),
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgSessionNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		card := ownedCard("alice")
		store := newStubTransferStore()
		store.addCard(card)
		handler := newTransferHandler(store)

		sessionID := beginSession(t, handler, "alice", card.ID, "gift")
		rec := postJSON(handler.HandleConfirmSession, "/transfers/session/confirm", SessionActionRequest{
			SessionID: sessionID,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"state":"success"`)
		assert.Contains(t, rec.Body.String(), "https://example.test/claim/")
		assert.Contains(t, rec.Body.String(), `"remaining_minutes"`)
	})

	t.Run("Creation Failure Enters Error State", func(t *testing.T) {
		card := ownedCard("alice")
		store := newStubTransferStore()
		store.addCard(card)
		handler := newTransferHandler(store)

		sessionID := beginSession(t, handler, "alice", card.ID, "gift")

		store.createErr = assert.AnError
		rec := postJSON(handler.HandleConfirmSession, "/transfers/session/confirm", SessionActionRequest{
			SessionID: sessionID,
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"state":"error"`)

		// Retry succeeds once the backend recovers.
		store.createErr = nil
		rec = postJSON(handler.HandleConfirmSession, "/transfers/session/confirm", SessionActionRequest{
			SessionID: sessionID,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"state":"success"`)
	})
}

func TestHandleCloseSession(t *testing.T) {
	card := ownedCard("alice")
	store := newStubTransferStore()
	store.addCard(card)
	handler := newTransferHandler(store)

	sessionID := beginSession(t, handler, "alice", card.ID, "gift")
	rec := postJSON(handler.HandleConfirmSession, "/transfers/session/confirm", SessionActionRequest{
		SessionID: sessionID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(handler.HandleCloseSession, "/transfers/session/close", SessionActionRequest{
		SessionID: sessionID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgSessionClosed)

	// Closing the dialog does not revoke the grant.
	for _, grant := range store.grants {
		assert.Equal(t, domain.TransferPending, grant.Status)
	}

	// The session itself is gone.
	getRec := httptest.NewRecorder()
	handler.HandleGetSession(getRec, httptest.NewRequest("GET", "/transfers/session?id="+sessionID, nil))
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}

func TestHandleListPending(t *testing.T) {
	t.Run("Missing User ID", func(t *testing.T) {
		handler := newTransferHandler(newStubTransferStore())
		rec := httptest.NewRecorder()
		handler.HandleListPending(rec, httptest.NewRequest("GET", "/transfers", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing user_id query parameter")
	})

	t.Run("Success", func(t *testing.T) {
		store := newStubTransferStore()
		grant := domain.TransferGrant{
			ID:         uuid.NewString(),
			CardID:     uuid.NewString(),
			FromUserID: "alice",
			Mode:       domain.TransferGift,
			ClaimToken: "ABCDXYZabc23",
			Status:     domain.TransferPending,
			ExpiresAt:  time.Now().Add(time.Hour),
		}
		store.addGrant(grant)
		handler := newTransferHandler(store)

		rec := httptest.NewRecorder()
		handler.HandleListPending(rec, httptest.NewRequest("GET", "/transfers?user_id=alice", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), grant.ID)
	})
}

func TestHandleRevokeGrant(t *testing.T) {
	store := newStubTransferStore()
	grant := domain.TransferGrant{
		ID:         uuid.NewString(),
		CardID:     uuid.NewString(),
		FromUserID: "alice",
		Mode:       domain.TransferGift,
		ClaimToken: "ABCDXYZabc23",
		Status:     domain.TransferPending,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	store.addGrant(grant)
	handler := newTransferHandler(store)

	t.Run("Not Originator", func(t *testing.T) {
		rec := postJSON(handler.HandleRevokeGrant, "/transfers/revoke", RevokeGrantRequest{
			UserID:     "bob",
			TransferID: grant.ID,
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgNotOriginatorError)
	})

	t.Run("Success", func(t *testing.T) {
		rec := postJSON(handler.HandleRevokeGrant, "/transfers/revoke", RevokeGrantRequest{
			UserID:     "alice",
			TransferID: grant.ID,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), MsgTransferRevoked)
		assert.Equal(t, domain.TransferCancelled, store.grants[grant.ID].Status)
	})
}
