// ABOUTME: Summary statistics over the filtered opportunity set
// ABOUTME: Totals, per-owner breakdowns, brand rankings, and status subsets
package crm

import (
	"math/rand"
	"sort"

	"github.com/harperreed/crmdigest/models"
)

// OwnerStats is one owner's slice of the pipeline.
type OwnerStats struct {
	DealCount  int
	TotalValue float64
	OpenCount  int
	WonCount   int
	LostCount  int
}

// Summary holds the headline aggregates for a report.
type Summary struct {
	TotalDeals   int
	TotalValue   float64
	OpenCount    int
	WonCount     int
	LostCount    int
	WinLossRatio float64 // percent; 0 when nothing won or lost
	PerOwner     map[string]OwnerStats
	Owners       []string // configured order, for stable rendering
}

// BrandRank is one entry in a brand ranking.
type BrandRank struct {
	Brand string
	Count int
	Value float64
}

// Summarize computes the headline aggregates. Every configured owner
// gets a PerOwner entry even with zero deals.
func Summarize(opps []models.Opportunity, owners []string) Summary {
	s := Summary{
		TotalDeals: len(opps),
		PerOwner:   make(map[string]OwnerStats, len(owners)),
		Owners:     owners,
	}
	for _, owner := range owners {
		s.PerOwner[owner] = OwnerStats{}
	}

	for _, opp := range opps {
		s.TotalValue += opp.Value

		stats := s.PerOwner[opp.Owner]
		stats.DealCount++
		stats.TotalValue += opp.Value

		switch opp.Status {
		case models.StatusOpen:
			s.OpenCount++
			stats.OpenCount++
		case models.StatusWon:
			s.WonCount++
			stats.WonCount++
		case models.StatusLost:
			s.LostCount++
			stats.LostCount++
		}
		s.PerOwner[opp.Owner] = stats
	}

	if s.WonCount+s.LostCount > 0 {
		s.WinLossRatio = float64(s.WonCount) / float64(s.WonCount+s.LostCount) * 100
	}

	return s
}

// TopBrandsByCount ranks brands by descending record count. Ties keep
// first-encountered order (stable sort over encounter order).
func TopBrandsByCount(opps []models.Opportunity, n int) []BrandRank {
	return topBrands(opps, n, func(a, b BrandRank) bool { return a.Count > b.Count })
}

// TopBrandsByValue ranks brands by descending summed pipeline value.
// A distinct operation from TopBrandsByCount, never conflated with it.
func TopBrandsByValue(opps []models.Opportunity, n int) []BrandRank {
	return topBrands(opps, n, func(a, b BrandRank) bool { return a.Value > b.Value })
}

func topBrands(opps []models.Opportunity, n int, less func(a, b BrandRank) bool) []BrandRank {
	index := make(map[string]int, len(opps))
	ranks := make([]BrandRank, 0, len(opps))

	for _, opp := range opps {
		i, seen := index[opp.Brand]
		if !seen {
			index[opp.Brand] = len(ranks)
			ranks = append(ranks, BrandRank{Brand: opp.Brand})
			i = len(ranks) - 1
		}
		ranks[i].Count++
		ranks[i].Value += opp.Value
	}

	sort.SliceStable(ranks, func(i, j int) bool { return less(ranks[i], ranks[j]) })

	if n >= 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// HighValueOpen returns open deals strictly above the threshold,
// preserving input order.
func HighValueOpen(opps []models.Opportunity, threshold float64) []models.Opportunity {
	var high []models.Opportunity
	for _, opp := range opps {
		if opp.Status == models.StatusOpen && opp.Value > threshold {
			high = append(high, opp)
		}
	}
	return high
}

// WonDeals returns the won subset in input order.
func WonDeals(opps []models.Opportunity) []models.Opportunity {
	return byStatus(opps, models.StatusWon)
}

// LostDeals returns the lost subset in input order.
func LostDeals(opps []models.Opportunity) []models.Opportunity {
	return byStatus(opps, models.StatusLost)
}

// OpenDeals returns the open subset in input order.
func OpenDeals(opps []models.Opportunity) []models.Opportunity {
	return byStatus(opps, models.StatusOpen)
}

func byStatus(opps []models.Opportunity, status string) []models.Opportunity {
	var subset []models.Opportunity
	for _, opp := range opps {
		if opp.Status == status {
			subset = append(subset, opp)
		}
	}
	return subset
}

// DailyPicks samples min(n, open) open deals for the daily-picks
// section. The caller supplies the rand source so tests can seed it.
func DailyPicks(opps []models.Opportunity, n int, r *rand.Rand) []models.Opportunity {
	if n <= 0 {
		return nil
	}
	open := OpenDeals(opps)
	if len(open) <= n {
		return open
	}

	picks := make([]models.Opportunity, len(open))
	copy(picks, open)
	r.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	return picks[:n]
}
