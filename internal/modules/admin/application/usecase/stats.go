package usecase

import (
	"strings"

	catalog "nomadeAdmin/internal/modules/catalog/domain"
)

// CountRule counts the items of the current page matching Match.
type CountRule[T any] struct {
	Name  string
	Match func(T) bool
}

// SumRule sums Value over the items of the current page.
type SumRule[T any] struct {
	Name  string
	Value func(T) float64
}

type StatDefinition[T any] struct {
	Counts []CountRule[T]
	Sums   []SumRule[T]
}

// Stats are summary figures for a list page. Total is the server count; every other figure is
// computed over the current page only, and Sampled is set when the page holds fewer items than
// the collection.
type Stats struct {
	Total   int                `json:"total"`
	Counts  map[string]int     `json:"counts"`
	Sums    map[string]float64 `json:"sums"`
	Sampled bool               `json:"sampled"`
}

// Aggregate reduces items with def. count is the server-reported collection size; zero falls
// back to len(items).
func Aggregate[T any](items []T, count int, def StatDefinition[T]) Stats {
	total := count
	if total == 0 {
		total = len(items)
	}
	stats := Stats{
		Total:   total,
		Counts:  make(map[string]int, len(def.Counts)),
		Sums:    make(map[string]float64, len(def.Sums)),
		Sampled: total > len(items),
	}
	for _, rule := range def.Counts {
		stats.Counts[rule.Name] = 0
	}
	for _, rule := range def.Sums {
		stats.Sums[rule.Name] = 0
	}
	for _, item := range items {
		for _, rule := range def.Counts {
			if rule.Match(item) {
				stats.Counts[rule.Name]++
			}
		}
		for _, rule := range def.Sums {
			stats.Sums[rule.Name] += rule.Value(item)
		}
	}
	return stats
}

// AccountStats counts loyalty accounts per tier and sums their points.
func AccountStats() StatDefinition[catalog.OneKeyAccount] {
	def := StatDefinition[catalog.OneKeyAccount]{
		Sums: []SumRule[catalog.OneKeyAccount]{{
			Name:  "totalPoints",
			Value: func(a catalog.OneKeyAccount) float64 { return float64(a.TotalPoints) },
		}},
	}
	for _, tier := range catalog.Tiers {
		def.Counts = append(def.Counts, CountRule[catalog.OneKeyAccount]{
			Name:  tier,
			Match: func(a catalog.OneKeyAccount) bool { return strings.EqualFold(a.Tier, tier) },
		})
	}
	return def
}

// UserStats counts users per status and email verification.
func UserStats() StatDefinition[catalog.User] {
	byStatus := func(status string) func(catalog.User) bool {
		return func(u catalog.User) bool { return strings.EqualFold(u.Status, status) }
	}
	return StatDefinition[catalog.User]{
		Counts: []CountRule[catalog.User]{
			{Name: "active", Match: byStatus("active")},
			{Name: "inactive", Match: byStatus("inactive")},
			{Name: "suspended", Match: byStatus("suspended")},
			{Name: "verified", Match: func(u catalog.User) bool { return u.EmailVerified }},
		},
	}
}
