// Package progress derives per-product redemption progress from a snapshot
// of the owned-card collection. Aggregation is a pure function of its input:
// it is recomputed from the latest collection on every call and never keeps
// running state that could diverge from a fresh pass over the same cards.
package progress

import (
	"sort"

	"github.com/vantail/collectroom/internal/domain"
)

// RedeemThreshold is the shard total at which a product becomes redeemable.
const RedeemThreshold = 100

// ProductGroup is the derived aggregate for all cards sharing a product key.
// It is recomputed on demand and never persisted.
type ProductGroup struct {
	ProductKey   string        `json:"product_key"`
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	ProductImage string        `json:"product_image,omitempty"`
	ProductValue float64       `json:"product_value"`
	TotalShards  int           `json:"total_shards"`
	TotalPoints  int           `json:"total_points"`
	CardCount    int           `json:"card_count"`
	IsRedeemable bool          `json:"is_redeemable"`
	HasGolden    bool          `json:"has_golden"`
	HasPrize     bool          `json:"has_prize"`
	Cards        []domain.Card `json:"cards"`
	// LatestCard is the most recently added card of the group.
	LatestCard domain.Card `json:"latest_card"`
	// GoldenCard is set when any contributing card is golden.
	GoldenCard *domain.Card `json:"golden_card,omitempty"`
	// DisplayCard is the golden card when one exists, otherwise LatestCard.
	DisplayCard domain.Card `json:"display_card"`
}

// Aggregate groups cards by product key and computes cumulative shard
// progress, point rewards and redeemability per product. Groups come back
// sorted by total shards descending; ties keep first-seen order.
func Aggregate(cards []domain.Card) []ProductGroup {
	groups := make(map[string]*ProductGroup, len(cards))
	order := make([]string, 0, len(cards))

	for _, card := range cards {
		key := card.ProductKey()

		g, ok := groups[key]
		if !ok {
			g = &ProductGroup{
				ProductKey:   key,
				Brand:        card.Brand,
				Model:        card.Model,
				ProductImage: card.ProductImage,
				ProductValue: card.ProductValue,
			}
			groups[key] = g
			order = append(order, key)
		}

		g.TotalShards += card.Shards()
		g.TotalPoints += card.Points()
		g.CardCount++
		g.Cards = append(g.Cards, card)
		g.LatestCard = card

		if card.IsGolden {
			c := card
			g.GoldenCard = &c
			g.HasGolden = true
		}
		if card.HasRedeemablePrize() {
			g.HasPrize = true
		}
	}

	result := make([]ProductGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.IsRedeemable = g.TotalShards >= RedeemThreshold
		// Golden cards take display priority and keep it even when later
		// non-golden cards of the same product arrive.
		if g.GoldenCard != nil {
			g.DisplayCard = *g.GoldenCard
		} else {
			g.DisplayCard = g.LatestCard
		}
		result = append(result, *g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalShards > result[j].TotalShards
	})

	return result
}
