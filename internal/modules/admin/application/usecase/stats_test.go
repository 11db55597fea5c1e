package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/shared/logging"
)

func TestDiamondSearchStats(t *testing.T) {
	t.Parallel()

	definition := AccountStats()
	controller := NewListController("accounts", ListDeps[catalog.OneKeyAccount]{
		Fetch: func(_ context.Context, _ int, search string) (catalog.Page[catalog.OneKeyAccount], error) {
			if search != "diamond" {
				return catalog.Page[catalog.OneKeyAccount]{}, nil
			}
			return catalog.Page[catalog.OneKeyAccount]{
				Count:   1,
				Results: []catalog.OneKeyAccount{{ID: "a-1", Tier: "diamond", TotalPoints: 500}},
			}, nil
		},
		Stats: &definition,
	}, ListOptions{Logger: logging.Discard()})

	require.NoError(t, controller.SetSearchTerm(context.Background(), "diamond"))
	stats, ok := controller.Stats()
	require.True(t, ok)
	assert.Equal(t, 1, stats.Counts[catalog.TierDiamond])
	assert.Equal(t, float64(500), stats.Sums["totalPoints"])
	assert.Equal(t, 1, stats.Total)
	assert.False(t, stats.Sampled)
}

func TestStatsArePageLocal(t *testing.T) {
	t.Parallel()

	page := []catalog.OneKeyAccount{
		{Tier: "gold", TotalPoints: 10},
		{Tier: "Gold", TotalPoints: 20},
		{Tier: "silver", TotalPoints: 5},
	}
	stats := Aggregate(page, 250, AccountStats())

	gold := 0
	for _, account := range page {
		if account.Tier == "gold" || account.Tier == "Gold" {
			gold++
		}
	}
	assert.Equal(t, gold, stats.Counts[catalog.TierGold])
	assert.Equal(t, 250, stats.Total)
	assert.True(t, stats.Sampled, "figures over a partial page must be flagged")
	assert.NotEqual(t, stats.Total, stats.Counts[catalog.TierGold]+stats.Counts[catalog.TierSilver])
	assert.Equal(t, 0, stats.Counts[catalog.TierDiamond])
	assert.Equal(t, float64(35), stats.Sums["totalPoints"])
}

func TestAggregateFallsBackToPageLength(t *testing.T) {
	t.Parallel()

	users := []catalog.User{
		{Status: "active", EmailVerified: true},
		{Status: "suspended"},
		{Status: "inactive", EmailVerified: true},
	}
	stats := Aggregate(users, 0, UserStats())
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"active": 1, "inactive": 1, "suspended": 1, "verified": 2}, stats.Counts)
	assert.False(t, stats.Sampled)
}

func TestStatsUnavailableWithoutDefinition(t *testing.T) {
	t.Parallel()

	controller := NewListController("airports", ListDeps[catalog.Airport]{
		Fetch: func(context.Context, int, string) (catalog.Page[catalog.Airport], error) {
			return catalog.Page[catalog.Airport]{}, nil
		},
	}, ListOptions{Logger: logging.Discard()})
	_, ok := controller.StatsSnapshot()
	assert.False(t, ok)
}
