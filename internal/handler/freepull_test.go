package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/freepull"
)

// stubPullStore implements freepull.Store for handler tests.
type stubPullStore struct {
	claimed map[string]time.Time
}

func newStubPullStore() *stubPullStore {
	return &stubPullStore{claimed: make(map[string]time.Time)}
}

func (s *stubPullStore) LastPull(_ context.Context, userID string, day time.Time) (*time.Time, error) {
	at, ok := s.claimed[userID+day.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (s *stubPullStore) GrantPull(_ context.Context, userID string, day time.Time, _ domain.Card) (bool, error) {
	key := userID + day.Format("2006-01-02")
	if _, taken := s.claimed[key]; taken {
		return false, nil
	}
	s.claimed[key] = time.Now()
	return true, nil
}

func newFreePullHandler(store freepull.Store) *FreePullHandler {
	return NewFreePullHandler(freepull.NewService(store, event.NewMemoryBus()))
}

func TestHandleClaimFreePull(t *testing.T) {
	t.Run("Malformed User ID", func(t *testing.T) {
		handler := newFreePullHandler(newStubPullStore())
		rec := postJSON(handler.HandleClaim, "/pulls/free", ClaimFreePullRequest{UserID: "alice"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequestSummary)
	})

	t.Run("Claim Then Refuse Same Day", func(t *testing.T) {
		handler := newFreePullHandler(newStubPullStore())
		userID := uuid.NewString()

		rec := postJSON(handler.HandleClaim, "/pulls/free", ClaimFreePullRequest{UserID: userID})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"card_id"`)

		rec = postJSON(handler.HandleClaim, "/pulls/free", ClaimFreePullRequest{UserID: userID})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgFreePullUsedError)
	})
}

func TestHandleFreePullStatus(t *testing.T) {
	handler := newFreePullHandler(newStubPullStore())
	userID := uuid.NewString()

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.HandleGetStatus(rec, httptest.NewRequest("GET", "/pulls/free?user_id="+userID, nil))
		return rec
	}

	rec := get()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"can_claim":true`)

	rec = postJSON(handler.HandleClaim, "/pulls/free", ClaimFreePullRequest{UserID: userID})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = get()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"can_claim":false`)
	assert.Contains(t, rec.Body.String(), `"next_available"`)

	t.Run("Missing User ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleGetStatus(rec, httptest.NewRequest("GET", "/pulls/free", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
