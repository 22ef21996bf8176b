package domain

import "time"

// TransferMode distinguishes a one-way gift from a card-for-card swap.
type TransferMode string

const (
	TransferGift TransferMode = "gift"
	TransferSwap TransferMode = "swap"
)

// Valid reports whether the mode is one of the known transfer modes.
func (m TransferMode) Valid() bool {
	return m == TransferGift || m == TransferSwap
}

// TransferStatus is the lifecycle state of a transfer grant. A grant leaves
// pending through exactly one of claim, cancel or expiry.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferClaimed   TransferStatus = "claimed"
	TransferCancelled TransferStatus = "cancelled"
	TransferExpired   TransferStatus = "expired"
)

// TransferGrant is an ephemeral, time-boxed authorization to move custody of
// one card, addressed solely by its opaque claim token.
type TransferGrant struct {
	ID          string         `json:"transfer_id"`
	CardID      string         `json:"card_id"`
	FromUserID  string         `json:"from_user_id"`
	ToUserID    string         `json:"to_user_id,omitempty"`
	Mode        TransferMode   `json:"mode"`
	ClaimToken  string         `json:"claim_token"`
	Status      TransferStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	ClaimedByID string         `json:"claimed_by_id,omitempty"`
}

// Expired reports whether the grant's expiry has passed at the given time.
// The server-enforced expiry is authoritative; client countdowns are
// advisory display only.
func (g TransferGrant) Expired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}

// TransferCardSummary is the subset of card data shown on a claim page.
type TransferCardSummary struct {
	CardID       string     `json:"card_id"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	ProductImage string     `json:"product_image,omitempty"`
	ProductValue float64    `json:"product_value"`
	Band         RarityBand `json:"band"`
	SerialNumber string     `json:"serial_number,omitempty"`
	IsGolden     bool       `json:"is_golden"`
}

// TransferDetails is what a recipient sees when resolving a claim token.
type TransferDetails struct {
	ID         string              `json:"transfer_id"`
	FromUserID string              `json:"from_user_id"`
	Mode       TransferMode        `json:"mode"`
	Status     TransferStatus      `json:"status"`
	ExpiresAt  time.Time           `json:"expires_at"`
	Card       TransferCardSummary `json:"card"`
}
