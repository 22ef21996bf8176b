package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/freepull"
)

type FreePullHandler struct {
	service freepull.Service
}

func NewFreePullHandler(service freepull.Service) *FreePullHandler {
	return &FreePullHandler{service: service}
}

type ClaimFreePullRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// HandleGetStatus reports whether the user's daily free pull is still
// available and when the next one unlocks.
func (h *FreePullHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, ErrMsgInvalidRequestError, http.StatusBadRequest)
		return
	}

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "get free pull status", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// HandleClaim rolls the daily free pull. The card lands unrevealed like any
// other delivery, so the reveal flow picks it up from here.
func (h *FreePullHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimFreePullRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim free pull"); err != nil {
		return
	}

	card, err := h.service.Claim(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "claim free pull", err)
		return
	}

	respondJSON(w, http.StatusCreated, card)
}
