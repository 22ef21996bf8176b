package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/vantail/collectroom/internal/domain"
)

// SessionState is a phase of the originator's send flow.
type SessionState string

const (
	// SessionConfirm shows the card and asks the originator to confirm.
	SessionConfirm SessionState = "confirm"
	// SessionGenerating covers the round trip that creates the grant.
	SessionGenerating SessionState = "generating"
	// SessionSuccess shows the share link and the expiry countdown.
	SessionSuccess SessionState = "success"
	// SessionError shows the failure; the originator can retry or close.
	SessionError SessionState = "error"
	// SessionClosed is terminal. Closing never revokes a created grant.
	SessionClosed SessionState = "closed"
)

// ErrBadSessionMove is returned for session operations requested out of phase.
var ErrBadSessionMove = errors.New(ErrMsgBadSessionMove)

// Session is the originator-side state for sending one card. The grant it
// creates lives on the server; the session is only the local flow around it,
// so closing the dialog after success leaves the grant claimable.
type Session struct {
	state       SessionState
	userID      string
	cardID      string
	mode        domain.TransferMode
	recipientID string
	grant       *domain.TransferGrant
	link        string
	failure     string
}

// State returns the current session phase.
func (s *Session) State() SessionState { return s.state }

// CardID returns the card the session is sending.
func (s *Session) CardID() string { return s.cardID }

// Mode returns the session's transfer mode.
func (s *Session) Mode() domain.TransferMode { return s.mode }

// RecipientID returns the intended recipient, or empty for an open grant
// anyone with the link can claim.
func (s *Session) RecipientID() string { return s.recipientID }

// Grant returns the created grant, or nil before success.
func (s *Session) Grant() *domain.TransferGrant { return s.grant }

// ShareLink returns the claim URL to hand to the recipient, or empty before
// success.
func (s *Session) ShareLink() string { return s.link }

// Failure returns the error message shown in the error phase.
func (s *Session) Failure() string { return s.failure }

// Remaining returns the time left on the grant, rounded to whole minutes
// for display. The countdown is advisory; the server's expiry check is the
// one that counts. Returns zero once expired or before success.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.grant == nil {
		return 0
	}
	left := s.grant.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return left.Round(time.Minute)
}

// Close ends the session. Safe in every phase; it never touches the grant.
func (s *Session) Close() {
	s.state = SessionClosed
}

func (s *Session) beginGenerating() error {
	if s.state != SessionConfirm && s.state != SessionError {
		return fmt.Errorf("%w: generate from %s", ErrBadSessionMove, s.state)
	}
	s.state = SessionGenerating
	s.failure = ""
	return nil
}

func (s *Session) succeed(grant domain.TransferGrant, link string) {
	g := grant
	s.grant = &g
	s.link = link
	s.state = SessionSuccess
}

func (s *Session) fail(msg string) {
	s.failure = msg
	s.state = SessionError
}
