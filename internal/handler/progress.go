package handler

import (
	"net/http"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/progress"
	"github.com/vantail/collectroom/internal/reveal"
)

type ProgressHandler struct {
	service reveal.Service
}

func NewProgressHandler(service reveal.Service) *ProgressHandler {
	return &ProgressHandler{
		service: service,
	}
}

// ProgressResponse wraps the per-product groups so the payload stays an
// object even when the collection is empty.
type ProgressResponse struct {
	Products []progress.ProductGroup `json:"products"`
}

// HandleGetProgress returns per-product redemption progress derived from the
// active user's collection. Groups are recomputed on every call.
func (h *ProgressHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	groups := progress.Aggregate(h.service.Collection())
	if groups == nil {
		groups = []progress.ProductGroup{}
	}

	respondJSON(w, http.StatusOK, ProgressResponse{Products: groups})
}

// CollectionResponse carries the owned-card snapshot.
type CollectionResponse struct {
	Cards []domain.Card `json:"cards"`
}

// HandleGetCollection returns the active user's owned cards.
func (h *ProgressHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	cards := h.service.Collection()
	if cards == nil {
		cards = []domain.Card{}
	}

	respondJSON(w, http.StatusOK, CollectionResponse{Cards: cards})
}
