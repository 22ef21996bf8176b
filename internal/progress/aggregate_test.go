package progress

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantail/collectroom/internal/domain"
)

func cardWithShards(id, productKey string, shards int) domain.Card {
	return domain.Card{
		ID:    id,
		Brand: "Acme",
		Model: "Widget",
		State: domain.StateOwned,
		Rewards: &domain.CardRewards{
			Points:   shards / 2,
			Progress: domain.ShardProgress{ShardsEarned: shards, ProductKey: productKey},
		},
	}
}

func goldenCard(id, productKey string) domain.Card {
	c := cardWithShards(id, productKey, domain.MaxShardsPerCard)
	c.IsGolden = true
	return c
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]domain.Card{}))
}

func TestAggregate_SumsShardsAcrossProduct(t *testing.T) {
	cards := []domain.Card{
		cardWithShards("a", "p1", 60),
		cardWithShards("b", "p1", 45),
	}

	groups := Aggregate(cards)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "p1", g.ProductKey)
	assert.Equal(t, 105, g.TotalShards)
	assert.Equal(t, 2, g.CardCount)
	assert.True(t, g.IsRedeemable)
	assert.Len(t, g.Cards, 2)
}

func TestAggregate_BelowThresholdNotRedeemable(t *testing.T) {
	groups := Aggregate([]domain.Card{cardWithShards("a", "p1", 99)})
	require.Len(t, groups, 1)
	assert.False(t, groups[0].IsRedeemable)

	groups = Aggregate([]domain.Card{cardWithShards("a", "p1", 100)})
	require.Len(t, groups, 1)
	assert.True(t, groups[0].IsRedeemable)
}

func TestAggregate_GoldenWinsDisplayRegardlessOfOrder(t *testing.T) {
	golden := goldenCard("gold", "p1")
	plain := cardWithShards("plain", "p1", 10)

	for name, cards := range map[string][]domain.Card{
		"golden first": {golden, plain},
		"golden last":  {plain, golden},
	} {
		t.Run(name, func(t *testing.T) {
			groups := Aggregate(cards)
			require.Len(t, groups, 1)
			assert.True(t, groups[0].HasGolden)
			require.NotNil(t, groups[0].GoldenCard)
			assert.Equal(t, "gold", groups[0].DisplayCard.ID)
		})
	}
}

func TestAggregate_DisplayCardIsLatestWithoutGolden(t *testing.T) {
	groups := Aggregate([]domain.Card{
		cardWithShards("first", "p1", 10),
		cardWithShards("second", "p1", 20),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "second", groups[0].DisplayCard.ID)
	assert.Equal(t, "second", groups[0].LatestCard.ID)
}

func TestAggregate_SortedByShardsDescending(t *testing.T) {
	groups := Aggregate([]domain.Card{
		cardWithShards("a", "low", 10),
		cardWithShards("b", "high", 90),
		cardWithShards("c", "mid", 50),
	})
	require.Len(t, groups, 3)
	assert.Equal(t, "high", groups[0].ProductKey)
	assert.Equal(t, "mid", groups[1].ProductKey)
	assert.Equal(t, "low", groups[2].ProductKey)
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	groups := Aggregate([]domain.Card{
		cardWithShards("a", "p1", 30),
		cardWithShards("b", "p2", 30),
		cardWithShards("c", "p3", 30),
	})
	require.Len(t, groups, 3)
	assert.Equal(t, "p1", groups[0].ProductKey)
	assert.Equal(t, "p2", groups[1].ProductKey)
	assert.Equal(t, "p3", groups[2].ProductKey)
}

func TestAggregate_MissingRewardsContributeZero(t *testing.T) {
	bare := domain.Card{ID: "bare", Brand: "Acme", Model: "Widget", State: domain.StateOwned}

	groups := Aggregate([]domain.Card{bare, cardWithShards("a", "acme-widget", 40)})
	require.Len(t, groups, 1)
	assert.Equal(t, 40, groups[0].TotalShards)
	assert.Equal(t, 2, groups[0].CardCount)
}

func TestAggregate_DerivesProductKeyFromBrandModel(t *testing.T) {
	card := domain.Card{ID: "x", Brand: "Grand  Seiko", Model: "Snowflake SBGA211", State: domain.StateOwned}

	groups := Aggregate([]domain.Card{card})
	require.Len(t, groups, 1)
	assert.Equal(t, "grand-seiko-snowflake-sbga211", groups[0].ProductKey)
}

func TestAggregate_ShardSumConserved(t *testing.T) {
	// Randomized inputs with a fixed seed: the sum of group totals must
	// always equal the sum of card shards, whatever the grouping.
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		var cards []domain.Card
		wantTotal := 0
		for i := 0; i < rng.Intn(30); i++ {
			shards := rng.Intn(domain.MaxShardsPerCard + 1)
			key := fmt.Sprintf("p%d", rng.Intn(5))
			cards = append(cards, cardWithShards(fmt.Sprintf("c%d-%d", trial, i), key, shards))
			wantTotal += shards
		}

		gotTotal := 0
		for _, g := range Aggregate(cards) {
			gotTotal += g.TotalShards
			assert.Equal(t, g.TotalShards >= RedeemThreshold, g.IsRedeemable)
		}
		assert.Equal(t, wantTotal, gotTotal)
	}
}

func TestAggregate_DeterministicForSameInput(t *testing.T) {
	cards := []domain.Card{
		cardWithShards("a", "p1", 70),
		cardWithShards("b", "p2", 20),
		goldenCard("g", "p2"),
		cardWithShards("c", "p3", 20),
	}

	first := Aggregate(cards)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(cards))
	}
}
