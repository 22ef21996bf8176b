package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/transfer"
)

func newClaimHandler(store *stubTransferStore) *ClaimHandler {
	svc := transfer.NewService(store, event.NewMemoryBus(), "https://example.test/claim", 48*time.Hour)
	return NewClaimHandler(svc)
}

func pendingGrant(from string, cardID string, mode domain.TransferMode, token string) domain.TransferGrant {
	return domain.TransferGrant{
		ID:         uuid.NewString(),
		CardID:     cardID,
		FromUserID: from,
		Mode:       mode,
		ClaimToken: token,
		Status:     domain.TransferPending,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestHandleResolveToken(t *testing.T) {
	card := ownedCard("alice")
	store := newStubTransferStore()
	store.addCard(card)
	store.addGrant(pendingGrant("alice", card.ID, domain.TransferGift, "ABCDXYZabc23"))
	handler := newClaimHandler(store)

	t.Run("Missing Token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleResolveToken(rec, httptest.NewRequest("GET", "/claim?user_id=bob", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing token query parameter")
	})

	t.Run("Malformed Token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleResolveToken(rec, httptest.NewRequest("GET", "/claim?token=short&user_id=bob", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgBadClaimLinkError)
	})

	t.Run("Unknown Token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleResolveToken(rec, httptest.NewRequest("GET", "/claim?token=WXYZabcd2345&user_id=bob", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgTransferNotFoundError)
	})

	t.Run("Recipient View", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleResolveToken(rec, httptest.NewRequest("GET", "/claim?token=ABCDXYZabc23&user_id=bob", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_own":false`)
		assert.Contains(t, rec.Body.String(), card.Brand)
	})

	t.Run("Originator View", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleResolveToken(rec, httptest.NewRequest("GET", "/claim?token=ABCDXYZabc23&user_id=alice", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_own":true`)
	})
}

func TestHandleClaimGift(t *testing.T) {
	t.Run("Malformed Token", func(t *testing.T) {
		handler := newClaimHandler(newStubTransferStore())
		rec := postJSON(handler.HandleClaimGift, "/claim/gift", ClaimGiftRequest{
			UserID: "bob",
			Token:  "not a token",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequestSummary)
	})

	t.Run("Expired Grant", func(t *testing.T) {
		card := ownedCard("alice")
		store := newStubTransferStore()
		store.addCard(card)
		grant := pendingGrant("alice", card.ID, domain.TransferGift, "ABCDXYZabc23")
		grant.ExpiresAt = time.Now().Add(-time.Minute)
		store.addGrant(grant)
		handler := newClaimHandler(store)

		rec := postJSON(handler.HandleClaimGift, "/claim/gift", ClaimGiftRequest{
			UserID: "bob",
			Token:  grant.ClaimToken,
		})

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgTransferExpiredError)
	})

	t.Run("Own Transfer Refused", func(t *testing.T) {
		card := ownedCard("alice")
		store := newStubTransferStore()
		store.addCard(card)
		grant := pendingGrant("alice", card.ID, domain.TransferGift, "ABCDXYZabc23")
		store.addGrant(grant)
		handler := newClaimHandler(store)

		rec := postJSON(handler.HandleClaimGift, "/claim/gift", ClaimGiftRequest{
			UserID: "alice",
			Token:  grant.ClaimToken,
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgOwnTransferError)
	})

	t.Run("Success Moves Custody", func(t *testing.T) {
		card := ownedCard("alice")
		store := newStubTransferStore()
		store.addCard(card)
		grant := pendingGrant("alice", card.ID, domain.TransferGift, "ABCDXYZabc23")
		store.addGrant(grant)
		handler := newClaimHandler(store)

		rec := postJSON(handler.HandleClaimGift, "/claim/gift", ClaimGiftRequest{
			UserID: "bob",
			Token:  grant.ClaimToken,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), card.ID)
		assert.Equal(t, "bob", store.cards[card.ID].OwnerID)

		// A second claim hits the already-claimed wall.
		rec = postJSON(handler.HandleClaimGift, "/claim/gift", ClaimGiftRequest{
			UserID: "carol",
			Token:  grant.ClaimToken,
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgTransferClaimedError)
	})
}

func TestHandleClaimSwap(t *testing.T) {
	t.Run("Missing Offered Card", func(t *testing.T) {
		handler := newClaimHandler(newStubTransferStore())
		rec := postJSON(handler.HandleClaimSwap, "/claim/swap", ClaimSwapRequest{
			UserID: "bob",
			Token:  "ABCDXYZabc23",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequestSummary)
	})

	t.Run("Offered Card Not Owned", func(t *testing.T) {
		card := ownedCard("alice")
		offered := ownedCard("carol")
		store := newStubTransferStore()
		store.addCard(card)
		store.addCard(offered)
		grant := pendingGrant("alice", card.ID, domain.TransferSwap, "ABCDXYZabc23")
		store.addGrant(grant)
		handler := newClaimHandler(store)

		rec := postJSON(handler.HandleClaimSwap, "/claim/swap", ClaimSwapRequest{
			UserID:        "bob",
			Token:         grant.ClaimToken,
			OfferedCardID: offered.ID,
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgCardNotOwnedError)
	})

	t.Run("Success Swaps Both Cards", func(t *testing.T) {
		card := ownedCard("alice")
		offered := ownedCard("bob")
		store := newStubTransferStore()
		store.addCard(card)
		store.addCard(offered)
		grant := pendingGrant("alice", card.ID, domain.TransferSwap, "ABCDXYZabc23")
		store.addGrant(grant)
		handler := newClaimHandler(store)

		rec := postJSON(handler.HandleClaimSwap, "/claim/swap", ClaimSwapRequest{
			UserID:        "bob",
			Token:         grant.ClaimToken,
			OfferedCardID: offered.ID,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), card.ID)
		assert.Equal(t, "bob", store.cards[card.ID].OwnerID)
		assert.Equal(t, "alice", store.cards[offered.ID].OwnerID)
	})
}
