package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RarityBand is the coarse rarity tier of a card, lowest to highest:
// ICON < RARE < GRAIL < MYTHIC.
type RarityBand string

const (
	BandIcon   RarityBand = "ICON"
	BandRare   RarityBand = "RARE"
	BandGrail  RarityBand = "GRAIL"
	BandMythic RarityBand = "MYTHIC"
)

// Rarity score thresholds for band classification.
// These are configuration values, not tuned logic.
const (
	ScoreThresholdMythic = 95
	ScoreThresholdGrail  = 80
	ScoreThresholdRare   = 50
)

// BandForScore maps a numeric rarity score to its band.
func BandForScore(score int) RarityBand {
	switch {
	case score >= ScoreThresholdMythic:
		return BandMythic
	case score >= ScoreThresholdGrail:
		return BandGrail
	case score >= ScoreThresholdRare:
		return BandRare
	default:
		return BandIcon
	}
}

// DisplayName returns the band name in title case for user-facing text.
func (b RarityBand) DisplayName() string {
	return cases.Title(language.English).String(strings.ToLower(string(b)))
}

// CardState represents the custody state of a card in a user's collection.
type CardState string

const (
	// StateOwned means the card is in the collection and available for actions.
	StateOwned CardState = "owned"
	// StateListed means the card is listed on the marketplace.
	StateListed CardState = "listed"
	// StateStaked means the card is staked in a drop room and locked.
	StateStaked CardState = "staked"
	// StateWon means the card was won from a drop room.
	StateWon CardState = "won"
	// StateRedeemed means the card was redeemed for the physical product.
	StateRedeemed CardState = "redeemed"
)

// MaxShardsPerCard is the upper bound of shard progress a single card can carry.
// A golden card always carries exactly this amount.
const MaxShardsPerCard = 100

// ShardProgress is the redemption progress a card contributes toward a product.
type ShardProgress struct {
	ShardsEarned int    `json:"shards_earned"`
	ProductKey   string `json:"product_key"`
}

// CardPrize is a special reward attached to a card beyond points and shards.
type CardPrize struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Redeemable  bool   `json:"redeemable"`
}

// CardRewards is the full reward payload of a card. It is immutable once the
// card is created.
type CardRewards struct {
	Points   int           `json:"points"`
	Perks    []string      `json:"perks,omitempty"`
	Progress ShardProgress `json:"progress"`
	Prize    *CardPrize    `json:"prize,omitempty"`
}

// Card is a single owned, revealed collectible unit.
type Card struct {
	ID           string       `json:"card_id"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	ProductImage string       `json:"product_image,omitempty"`
	ProductValue float64      `json:"product_value"`
	RarityScore  int          `json:"rarity_score"`
	Band         RarityBand   `json:"band"`
	IsGolden     bool         `json:"is_golden"`
	SerialNumber string       `json:"serial_number,omitempty"`
	OwnerID      string       `json:"owner_id,omitempty"`
	PulledAt     time.Time    `json:"pulled_at,omitempty"`
	Rewards      *CardRewards `json:"rewards,omitempty"`
	State        CardState    `json:"card_state"`
	StakedRoomID string       `json:"staked_room_id,omitempty"`
}

// ProductKey returns the canonical key grouping all cards of the same
// redeemable product: the explicit key from the reward payload when present,
// otherwise lowercase(brand-model) with whitespace runs collapsed to hyphens.
func (c Card) ProductKey() string {
	if c.Rewards != nil && c.Rewards.Progress.ProductKey != "" {
		return c.Rewards.Progress.ProductKey
	}
	key := strings.ToLower(c.Brand + "-" + c.Model)
	return strings.Join(strings.Fields(key), "-")
}

// Shards returns the shard progress this card contributes. A card with no
// reward payload contributes zero.
func (c Card) Shards() int {
	if c.Rewards == nil {
		return 0
	}
	return c.Rewards.Progress.ShardsEarned
}

// Points returns the point reward this card carries, zero without a payload.
func (c Card) Points() int {
	if c.Rewards == nil {
		return 0
	}
	return c.Rewards.Points
}

// HasRedeemablePrize reports whether the card carries a prize that can be
// redeemed.
func (c Card) HasRedeemablePrize() bool {
	return c.Rewards != nil && c.Rewards.Prize != nil && c.Rewards.Prize.Redeemable
}

// Transferable reports whether the card can be promoted into a transfer
// grant. Staked and redeemed cards are locked in place.
func (c Card) Transferable() bool {
	return c.State == StateOwned || c.State == StateWon
}
