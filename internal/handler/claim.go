package handler

import (
	"net/http"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/transfer"
)

type ClaimHandler struct {
	service transfer.Service
}

func NewClaimHandler(service transfer.Service) *ClaimHandler {
	return &ClaimHandler{
		service: service,
	}
}

// ResolveTokenResponse is what the claim page renders before the recipient
// decides. IsOwn tells the page to offer cancel instead of claim.
type ResolveTokenResponse struct {
	Transfer *domain.TransferDetails `json:"transfer"`
	IsOwn    bool                    `json:"is_own"`
}

// HandleResolveToken looks up what a claim link points at.
func (h *ClaimHandler) HandleResolveToken(w http.ResponseWriter, r *http.Request) {
	token, ok := GetQueryParam(r, w, "token")
	if !ok {
		return
	}
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	details, isOwn, err := h.service.ResolveToken(r.Context(), userID, token)
	if err != nil {
		respondServiceError(w, r, "resolve claim token", err)
		return
	}

	respondJSON(w, http.StatusOK, ResolveTokenResponse{Transfer: details, IsOwn: isOwn})
}

type ClaimGiftRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Token  string `json:"token" validate:"required,claimtoken"`
}

// HandleClaimGift claims a gift grant for the requesting user.
func (h *ClaimHandler) HandleClaimGift(w http.ResponseWriter, r *http.Request) {
	var req ClaimGiftRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim gift"); err != nil {
		return
	}

	card, err := h.service.ClaimGift(r.Context(), req.UserID, req.Token)
	if err != nil {
		respondServiceError(w, r, "claim gift", err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

type ClaimSwapRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	Token         string `json:"token" validate:"required,claimtoken"`
	OfferedCardID string `json:"offered_card_id" validate:"required,uuid"`
}

// HandleClaimSwap claims a swap grant, giving up the offered card.
func (h *ClaimHandler) HandleClaimSwap(w http.ResponseWriter, r *http.Request) {
	var req ClaimSwapRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim swap"); err != nil {
		return
	}

	card, err := h.service.ClaimSwap(r.Context(), req.UserID, req.Token, req.OfferedCardID)
	if err != nil {
		respondServiceError(w, r, "claim swap", err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}
