package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/logger"
	"github.com/vantail/collectroom/internal/reveal"
	"github.com/vantail/collectroom/internal/transfer"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers already sent, nothing to do but log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error("Failed to "+opName, "error", err)
	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	// Card messages
	ErrMsgCardNotFoundError = "Card not found"
	ErrMsgCardNotOwnedError = "You don't own that card"
	ErrMsgCardStakedError   = "That card is staked in a drop room and locked"
	ErrMsgInvalidCardIDErr  = "Invalid card ID"

	// Free pull messages
	ErrMsgFreePullUsedError = "You already claimed today's free pull. Come back tomorrow!"

	// Reveal messages
	ErrMsgNothingToRevealError = "No cards waiting. Open a box to get more!"
	ErrMsgNoCurrentCardError   = "No card is being revealed right now"
	ErrMsgOutOfOrderError      = "That action is not available right now"

	// Transfer messages
	ErrMsgBadClaimLinkError      = "That claim link doesn't look right"
	ErrMsgTransferNotFoundError  = "This transfer doesn't exist"
	ErrMsgTransferExpiredError   = "This transfer has expired"
	ErrMsgTransferClaimedError   = "This card was already claimed"
	ErrMsgTransferCancelledError = "This transfer was cancelled by the sender"
	ErrMsgOwnTransferError       = "You can't claim your own transfer"
	ErrMsgNotOriginatorError     = "Only the sender can cancel a transfer"

	// Session messages
	ErrMsgSessionNotFound = "Send session not found"
)

// Success messages for handler responses
const (
	MsgSessionClosed   = "Session closed"
	MsgTransferRevoked = "Transfer cancelled"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Each terminal transfer outcome gets its own message so the claim page can
// tell the recipient exactly what happened.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCardID):
		return http.StatusBadRequest, ErrMsgInvalidCardIDErr
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound, ErrMsgCardNotFoundError
	case errors.Is(err, domain.ErrCardNotOwned):
		return http.StatusForbidden, ErrMsgCardNotOwnedError
	case errors.Is(err, domain.ErrCardStaked):
		return http.StatusConflict, ErrMsgCardStakedError
	case errors.Is(err, domain.ErrFreePullUsed):
		return http.StatusConflict, ErrMsgFreePullUsedError
	case errors.Is(err, reveal.ErrNoPendingCards):
		return http.StatusConflict, ErrMsgNothingToRevealError
	case errors.Is(err, reveal.ErrNoCurrentCard):
		return http.StatusConflict, ErrMsgNoCurrentCardError
	case errors.Is(err, reveal.ErrBadTransition):
		return http.StatusConflict, ErrMsgOutOfOrderError
	case errors.Is(err, transfer.ErrBadSessionMove):
		return http.StatusConflict, ErrMsgOutOfOrderError
	case errors.Is(err, transfer.ErrBadToken):
		return http.StatusBadRequest, ErrMsgBadClaimLinkError
	case errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound, ErrMsgTransferNotFoundError
	case errors.Is(err, domain.ErrTransferExpired):
		return http.StatusGone, ErrMsgTransferExpiredError
	case errors.Is(err, domain.ErrTransferClaimed):
		return http.StatusConflict, ErrMsgTransferClaimedError
	case errors.Is(err, domain.ErrTransferCancelled):
		return http.StatusGone, ErrMsgTransferCancelledError
	case errors.Is(err, domain.ErrOwnTransfer):
		return http.StatusForbidden, ErrMsgOwnTransferError
	case errors.Is(err, domain.ErrNotOriginator):
		return http.StatusForbidden, ErrMsgNotOriginatorError
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway, ErrMsgGenericServerError
	}

	// For wrapped errors with domain errors as the base, try unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
