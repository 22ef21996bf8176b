package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/reveal"
)

// stubCollectionStore backs the reveal service in handler tests.
type stubCollectionStore struct {
	owned       []domain.Card
	unrevealed  []domain.Card
	fetchErr    error
	markSeenErr error
}

func (s *stubCollectionStore) FetchOwnedCards(ctx context.Context, userID string) ([]domain.Card, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.owned, nil
}

func (s *stubCollectionStore) FetchUnrevealedCards(ctx context.Context, userID string) ([]domain.Card, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.unrevealed, nil
}

func (s *stubCollectionStore) MarkCardSeen(ctx context.Context, cardID string) error {
	return s.markSeenErr
}

func testCard(brand, model string) domain.Card {
	return domain.Card{
		ID:          uuid.NewString(),
		Brand:       brand,
		Model:       model,
		RarityScore: 60,
		Band:        domain.BandRare,
		State:       domain.StateOwned,
	}
}

func newRevealHandler(store *stubCollectionStore) *RevealHandler {
	return NewRevealHandler(reveal.NewService(store, event.NewMemoryBus()))
}

func TestHandleSetUser(t *testing.T) {
	tests := []struct {
		name           string
		reqBody        interface{}
		store          *stubCollectionStore
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			store:          &stubCollectionStore{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Missing User ID",
			reqBody:        SetUserRequest{},
			store:          &stubCollectionStore{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name:           "Store Error",
			reqBody:        SetUserRequest{UserID: "alice"},
			store:          &stubCollectionStore{fetchErr: errors.New("connection reset")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "connection reset",
		},
		{
			name:    "Success",
			reqBody: SetUserRequest{UserID: "alice"},
			store: &stubCollectionStore{
				unrevealed: []domain.Card{testCard("Grand Seiko", "SBGA211")},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"pending_count":1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRevealHandler(tt.store)

			var body []byte
			if s, ok := tt.reqBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.reqBody)
			}

			req := httptest.NewRequest("POST", "/reveal/user", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()

			handler.HandleSetUser(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleOpenNext(t *testing.T) {
	t.Run("Empty Queue", func(t *testing.T) {
		handler := newRevealHandler(&stubCollectionStore{})
		setActiveUser(t, handler, "alice")

		req := httptest.NewRequest("POST", "/reveal/open", nil)
		rec := httptest.NewRecorder()

		handler.HandleOpenNext(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgNothingToRevealError)
	})

	t.Run("Success", func(t *testing.T) {
		card := testCard("Rolex", "Submariner")
		handler := newRevealHandler(&stubCollectionStore{unrevealed: []domain.Card{card}})
		setActiveUser(t, handler, "alice")

		req := httptest.NewRequest("POST", "/reveal/open", nil)
		rec := httptest.NewRecorder()

		handler.HandleOpenNext(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), card.ID)
	})
}

func TestHandleRevealFlow(t *testing.T) {
	card := testCard("Omega", "Speedmaster")
	store := &stubCollectionStore{unrevealed: []domain.Card{card}}
	handler := newRevealHandler(store)
	setActiveUser(t, handler, "alice")

	t.Run("Reveal Without Open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleReveal(rec, httptest.NewRequest("POST", "/reveal/flip", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgNoCurrentCardError)
	})

	t.Run("Open Then Reveal Then File", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleOpenNext(rec, httptest.NewRequest("POST", "/reveal/open", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.HandleReveal(rec, httptest.NewRequest("POST", "/reveal/flip", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), card.ID)

		rec = httptest.NewRecorder()
		handler.HandleFile(rec, httptest.NewRequest("POST", "/reveal/file", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), card.ID)
	})
}

func TestHandleFileWarning(t *testing.T) {
	card := testCard("Tudor", "Black Bay")
	store := &stubCollectionStore{
		unrevealed:  []domain.Card{card},
		markSeenErr: errors.New("server unavailable"),
	}
	handler := newRevealHandler(store)
	setActiveUser(t, handler, "alice")

	rec := httptest.NewRecorder()
	handler.HandleOpenNext(rec, httptest.NewRequest("POST", "/reveal/open", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.HandleReveal(rec, httptest.NewRequest("POST", "/reveal/flip", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.HandleFile(rec, httptest.NewRequest("POST", "/reveal/file", nil))

	// The card is filed locally even when the server update fails.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"warning"`)
	assert.Contains(t, rec.Body.String(), card.ID)
}

func TestHandleGetState(t *testing.T) {
	handler := newRevealHandler(&stubCollectionStore{})

	rec := httptest.NewRecorder()
	handler.HandleGetState(rec, httptest.NewRequest("GET", "/reveal/state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"screen":"sealed"`)
}

func setActiveUser(t *testing.T, handler *RevealHandler, userID string) {
	t.Helper()

	body, _ := json.Marshal(SetUserRequest{UserID: userID})
	rec := httptest.NewRecorder()
	handler.HandleSetUser(rec, httptest.NewRequest("POST", "/reveal/user", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusOK, rec.Code)
}
