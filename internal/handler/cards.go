package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
	"github.com/vantail/collectroom/internal/repository"
)

type CardHandler struct {
	repo repository.Collection
	bus  event.Bus
}

func NewCardHandler(repo repository.Collection, bus event.Bus) *CardHandler {
	return &CardHandler{
		repo: repo,
		bus:  bus,
	}
}

type DeliverCardRequest struct {
	UserID       string              `json:"user_id" validate:"required"`
	CardID       string              `json:"card_id" validate:"required,uuid"`
	Brand        string              `json:"brand" validate:"required"`
	Model        string              `json:"model" validate:"required"`
	ProductImage string              `json:"product_image"`
	ProductValue float64             `json:"product_value" validate:"gte=0"`
	RarityScore  int                 `json:"rarity_score" validate:"gte=0,lte=100"`
	IsGolden     bool                `json:"is_golden"`
	SerialNumber string              `json:"serial_number"`
	Rewards      *domain.CardRewards `json:"rewards"`
}

// HandleDeliverCard records a card pulled from a purchase and announces it on
// the bus, which queues it for reveal if the owner is active.
func (h *CardHandler) HandleDeliverCard(w http.ResponseWriter, r *http.Request) {
	var req DeliverCardRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deliver card"); err != nil {
		return
	}

	card := domain.Card{
		ID:           req.CardID,
		Brand:        req.Brand,
		Model:        req.Model,
		ProductImage: req.ProductImage,
		ProductValue: req.ProductValue,
		RarityScore:  req.RarityScore,
		Band:         domain.BandForScore(req.RarityScore),
		IsGolden:     req.IsGolden,
		SerialNumber: req.SerialNumber,
		OwnerID:      req.UserID,
		Rewards:      req.Rewards,
		State:        domain.StateOwned,
	}

	// A golden pull completes its product outright.
	if card.IsGolden {
		if card.Rewards == nil {
			card.Rewards = &domain.CardRewards{}
		}
		card.Rewards.Progress.ShardsEarned = domain.MaxShardsPerCard
	}

	if err := h.repo.InsertCard(r.Context(), card); err != nil {
		respondServiceError(w, r, "deliver card", err)
		return
	}

	if err := h.bus.Publish(r.Context(), event.NewCardDeliveredEvent(req.UserID, card)); err != nil {
		logger.FromContext(r.Context()).Error("Failed to publish delivery event", "error", err, "card_id", card.ID)
	}

	respondJSON(w, http.StatusCreated, card)
}

// HandleGetCard returns a single card by ID.
func (h *CardHandler) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	cardIDStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return
	}
	if _, err := uuid.Parse(cardIDStr); err != nil {
		http.Error(w, ErrMsgInvalidCardIDErr, http.StatusBadRequest)
		return
	}

	card, err := h.repo.GetCard(r.Context(), cardIDStr)
	if err != nil {
		respondServiceError(w, r, "get card", err)
		return
	}
	if card == nil {
		http.Error(w, ErrMsgCardNotFoundError, http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, card)
}
