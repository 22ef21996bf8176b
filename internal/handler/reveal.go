package handler

import (
	"net/http"

	"github.com/vantail/collectroom/internal/reveal"
)

type RevealHandler struct {
	service reveal.Service
}

func NewRevealHandler(service reveal.Service) *RevealHandler {
	return &RevealHandler{
		service: service,
	}
}

type SetUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// HandleSetUser switches the active user and loads their collection and
// pending cards.
func (h *RevealHandler) HandleSetUser(w http.ResponseWriter, r *http.Request) {
	var req SetUserRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set user"); err != nil {
		return
	}

	if err := h.service.SetUser(r.Context(), req.UserID); err != nil {
		respondServiceError(w, r, "set user", err)
		return
	}

	respondJSON(w, http.StatusOK, h.service.Snapshot())
}

// HandleOpenNext pulls the oldest pending card and starts unboxing it.
func (h *RevealHandler) HandleOpenNext(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.OpenNext(r.Context())
	if err != nil {
		respondServiceError(w, r, "open next card", err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

// HandleReveal flips the current card face up.
func (h *RevealHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.Reveal(r.Context())
	if err != nil {
		respondServiceError(w, r, "reveal card", err)
		return
	}

	respondJSON(w, http.StatusOK, card)
}

// HandleFile moves the current card into the collection.
func (h *RevealHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.File(r.Context())
	if err != nil {
		respondServiceError(w, r, "file card", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleSync refreshes the pending queue from the store.
func (h *RevealHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SyncUnrevealed(r.Context()); err != nil {
		respondServiceError(w, r, "sync unrevealed cards", err)
		return
	}

	respondJSON(w, http.StatusOK, h.service.Snapshot())
}

// HandleGetState returns the current reveal flow snapshot.
func (h *RevealHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Snapshot())
}
