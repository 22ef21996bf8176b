package repository

import (
	"context"
	"time"

	"github.com/vantail/collectroom/internal/domain"
)

// FreePull defines the interface for daily free pull persistence. A user
// gets at most one free pull per calendar day; GrantPull enforces that
// atomically.
type FreePull interface {
	// LastPull returns when the user claimed their pull on the given day,
	// or nil if they have not.
	LastPull(ctx context.Context, userID string, day time.Time) (*time.Time, error)
	// GrantPull records the day's pull and stores the pulled card in one
	// transaction. Returns false without error when the day's pull was
	// already taken.
	GrantPull(ctx context.Context, userID string, day time.Time, card domain.Card) (bool, error)
}
