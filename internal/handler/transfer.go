package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/transfer"
)

type TransferHandler struct {
	service transfer.Service

	mu       sync.Mutex
	sessions map[string]*transfer.Session
}

func NewTransferHandler(service transfer.Service) *TransferHandler {
	return &TransferHandler{
		service:  service,
		sessions: make(map[string]*transfer.Session),
	}
}

// SessionResponse is the wire view of a send session. The grant's claim
// token never appears here on its own; recipients get it inside the share
// link the originator chooses to pass along.
type SessionResponse struct {
	SessionID        string                `json:"session_id"`
	State            transfer.SessionState `json:"state"`
	CardID           string                `json:"card_id"`
	Mode             domain.TransferMode   `json:"mode"`
	RecipientID      string                `json:"recipient_id,omitempty"`
	ShareLink        string                `json:"share_link,omitempty"`
	ExpiresAt        *time.Time            `json:"expires_at,omitempty"`
	RemainingMinutes int                   `json:"remaining_minutes,omitempty"`
	Error            string                `json:"error,omitempty"`
}

func sessionResponse(sessionID string, session *transfer.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:   sessionID,
		State:       session.State(),
		CardID:      session.CardID(),
		Mode:        session.Mode(),
		RecipientID: session.RecipientID(),
		ShareLink:   session.ShareLink(),
		Error:       session.Failure(),
	}
	if grant := session.Grant(); grant != nil {
		expires := grant.ExpiresAt
		resp.ExpiresAt = &expires
		resp.RemainingMinutes = int(session.Remaining(time.Now()).Minutes())
	}
	return resp
}

type BeginSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	CardID string `json:"card_id" validate:"required,uuid"`
	Mode   string `json:"mode" validate:"required,transfermode"`
	// RecipientID pins the grant to one claimant. Empty means anyone with
	// the share link can claim.
	RecipientID string `json:"recipient_id" validate:"omitempty,uuid"`
}

// HandleBeginSession validates the card and opens a send session in the
// confirm phase.
func (h *TransferHandler) HandleBeginSession(w http.ResponseWriter, r *http.Request) {
	var req BeginSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Begin transfer session"); err != nil {
		return
	}

	session, err := h.service.BeginSession(r.Context(), req.UserID, req.CardID, domain.TransferMode(req.Mode), req.RecipientID)
	if err != nil {
		respondServiceError(w, r, "begin transfer session", err)
		return
	}

	sessionID := uuid.NewString()
	h.mu.Lock()
	h.sessions[sessionID] = session
	h.mu.Unlock()

	respondJSON(w, http.StatusCreated, sessionResponse(sessionID, session))
}

type SessionActionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

// HandleConfirmSession creates the grant for a session in the confirm or
// error phase. Retryable after a failure.
func (h *TransferHandler) HandleConfirmSession(w http.ResponseWriter, r *http.Request) {
	var req SessionActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Confirm transfer session"); err != nil {
		return
	}

	session, ok := h.lookupSession(req.SessionID)
	if !ok {
		http.Error(w, ErrMsgSessionNotFound, http.StatusNotFound)
		return
	}

	if err := h.service.ConfirmSession(r.Context(), session); err != nil {
		// The session view carries the failure state the UI needs either way.
		statusCode, _ := mapServiceErrorToUserMessage(err)
		respondJSON(w, statusCode, sessionResponse(req.SessionID, session))
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(req.SessionID, session))
}

// HandleCloseSession ends a session. The grant it created, if any, stays
// claimable until it expires or is revoked explicitly.
func (h *TransferHandler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	var req SessionActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Close transfer session"); err != nil {
		return
	}

	h.mu.Lock()
	session, ok := h.sessions[req.SessionID]
	if ok {
		session.Close()
		delete(h.sessions, req.SessionID)
	}
	h.mu.Unlock()

	if !ok {
		http.Error(w, ErrMsgSessionNotFound, http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionClosed})
}

// HandleGetSession returns the current view of a session.
func (h *TransferHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetQueryParam(r, w, "id")
	if !ok {
		return
	}

	session, found := h.lookupSession(sessionID)
	if !found {
		http.Error(w, ErrMsgSessionNotFound, http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(sessionID, session))
}

// HandleListPending lists a user's outstanding grants.
func (h *TransferHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	grants, err := h.service.PendingTransfers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "list pending transfers", err)
		return
	}
	if grants == nil {
		grants = []domain.TransferGrant{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"transfers": grants})
}

type RevokeGrantRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	TransferID string `json:"transfer_id" validate:"required,uuid"`
}

// HandleRevokeGrant cancels a pending grant. Only the originator may revoke.
func (h *TransferHandler) HandleRevokeGrant(w http.ResponseWriter, r *http.Request) {
	var req RevokeGrantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Revoke transfer"); err != nil {
		return
	}

	if err := h.service.RevokeGrant(r.Context(), req.UserID, req.TransferID); err != nil {
		respondServiceError(w, r, "revoke transfer", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTransferRevoked})
}

func (h *TransferHandler) lookupSession(sessionID string) (*transfer.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[sessionID]
	return session, ok
}
