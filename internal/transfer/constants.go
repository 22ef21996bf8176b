package transfer

import "time"

// Claim token format. The alphabet drops characters that read ambiguously
// in a shared link (I, O, l, 0, 1).
const (
	ClaimTokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
	ClaimTokenLength   = 12
)

// Details cache configuration
const (
	DetailsCacheSize = 256
	DetailsCacheTTL  = 30 * time.Second
)

// Log messages
const (
	LogMsgSessionStarted    = "Transfer session started"
	LogMsgGrantCreated      = "Transfer grant created"
	LogMsgGrantCreateFailed = "Failed to create transfer grant"
	LogMsgGrantCancelled    = "Transfer grant cancelled"
	LogMsgGrantClaimed      = "Transfer grant claimed"
	LogMsgOwnClaimRefused   = "Refusing claim of own transfer"
	LogMsgWrongRecipient    = "Refusing claim of addressed transfer by another user"
	LogMsgSweepStarted      = "Transfer expiry sweeper started"
	LogMsgSweepStopped      = "Transfer expiry sweeper stopped"
	LogMsgSweepFailed       = "Transfer expiry sweep failed"
	LogMsgTransfersExpired  = "Expired pending transfers"
	LogMsgDetailsCacheHit   = "Transfer details served from cache"
)

// Error messages
const (
	ErrMsgBadToken       = "claim token is malformed"
	ErrMsgBadSessionMove = "invalid transfer session transition"
)
