package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Card errors
	ErrMsgCardNotFound  = "card not found"
	ErrMsgCardStaked    = "card is staked"
	ErrMsgCardNotOwned  = "card is not owned by user"
	ErrMsgInvalidCardID = "invalid card id"

	// Transfer lifecycle errors - each surfaces distinctly to the user,
	// never collapsed into a generic failure
	ErrMsgTransferNotFound  = "transfer not found"
	ErrMsgTransferExpired   = "transfer has expired"
	ErrMsgTransferClaimed   = "transfer was already claimed"
	ErrMsgTransferCancelled = "transfer was already cancelled"
	ErrMsgOwnTransfer       = "cannot claim your own transfer"
	ErrMsgNotOriginator     = "only the originator may cancel"

	// Free pull errors
	ErrMsgFreePullUsed = "free pull already claimed today"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Transport/backend errors
	ErrMsgTransport = "backend request failed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Card errors
	ErrCardNotFound  = errors.New(ErrMsgCardNotFound)
	ErrCardStaked    = errors.New(ErrMsgCardStaked)
	ErrCardNotOwned  = errors.New(ErrMsgCardNotOwned)
	ErrInvalidCardID = errors.New(ErrMsgInvalidCardID)

	// Transfer lifecycle errors
	ErrTransferNotFound  = errors.New(ErrMsgTransferNotFound)
	ErrTransferExpired   = errors.New(ErrMsgTransferExpired)
	ErrTransferClaimed   = errors.New(ErrMsgTransferClaimed)
	ErrTransferCancelled = errors.New(ErrMsgTransferCancelled)
	ErrOwnTransfer       = errors.New(ErrMsgOwnTransfer)
	ErrNotOriginator     = errors.New(ErrMsgNotOriginator)

	// Free pull errors
	ErrFreePullUsed = errors.New(ErrMsgFreePullUsed)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Transport/backend errors
	ErrTransport = errors.New(ErrMsgTransport)
)
