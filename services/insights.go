package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// InsightService computes the grouped fly-rate statistics for one
// filtered selection. Everything here is a pure function of the input
// slice; cohort assignment depends on the selection's median follower
// count and is recomputed on every call, never cached across filters.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the full report for the given selection.
func (s *InsightService) Generate(trips []*models.TripRecord) *models.Report {
	report := &models.Report{}
	if len(trips) == 0 {
		report.BracketRates = emptyBrackets()
		return report
	}

	report.TotalTrips = len(trips)
	for _, t := range trips {
		if t.Success == models.Successful {
			report.SuccessfulTrips++
		}
	}
	report.FlyRate = rate(report.SuccessfulTrips, report.TotalTrips)
	report.MedianFollowers = medianFollowers(trips)

	report.BracketRates = bracketRates(trips)
	report.MarketRates = marketRates(trips)
	report.CohortSummaries = cohortSummaries(trips, report.MedianFollowers)
	report.CohortMarkets = cohortMarkets(trips, report.MedianFollowers)

	return report
}

// CohortRows returns the exportable row subset for one cohort label,
// recomputing the median so cohort membership matches the selection.
func (s *InsightService) CohortRows(trips []*models.TripRecord, cohort string) []models.CohortRow {
	if len(trips) == 0 {
		return nil
	}
	median := medianFollowers(trips)
	var rows []models.CohortRow
	for _, t := range trips {
		if cohortOf(t, median) != cohort {
			continue
		}
		rows = append(rows, models.CohortRow{
			TourheroEmail: t.TourheroEmail,
			TourID:        t.TourID,
			FollowerCount: t.FollowerCount,
			Success:       t.Success,
		})
	}
	return rows
}

// rate is the fly-rate percentage, 0 when the group is empty.
func rate(successes, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successes) / float64(total) * 100
}

// medianFollowers is the median follower count of the selection; for an
// even count it is the mean of the two middle values.
func medianFollowers(trips []*models.TripRecord) float64 {
	counts := make([]int, len(trips))
	for i, t := range trips {
		counts[i] = t.FollowerCount
	}
	sort.Ints(counts)

	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		return float64(counts[mid])
	}
	return float64(counts[mid-1]+counts[mid]) / 2
}

// cohortOf assigns a trip to one of the four cohorts relative to the
// selection's median.
func cohortOf(t *models.TripRecord, median float64) string {
	level := models.LowFollowers
	if float64(t.FollowerCount) >= median {
		level = models.HighFollowers
	}
	return models.CohortLabel(level, t.Success)
}

func emptyBrackets() []models.BracketRate {
	brackets := make([]models.BracketRate, len(models.BracketLabels))
	for i, label := range models.BracketLabels {
		brackets[i] = models.BracketRate{Bracket: label}
	}
	return brackets
}

// bracketRates reports all six brackets in fixed order; a bracket with no
// trips reports rate 0 rather than being omitted.
func bracketRates(trips []*models.TripRecord) []models.BracketRate {
	var counts, successes [len(models.BracketLabels)]int
	for _, t := range trips {
		idx := models.BracketIndex(t.FollowerCount)
		counts[idx]++
		if t.Success == models.Successful {
			successes[idx]++
		}
	}

	brackets := emptyBrackets()
	for i := range brackets {
		brackets[i].Trips = counts[i]
		brackets[i].FlyRate = rate(successes[i], counts[i])
		brackets[i].Share = rate(counts[i], len(trips))
	}
	return brackets
}

// marketRates reports one entry per market present, sorted descending by
// fly rate (ties by market name for determinism).
func marketRates(trips []*models.TripRecord) []models.MarketRate {
	type tally struct{ total, successes int }
	byMarket := make(map[string]*tally)
	for _, t := range trips {
		m := byMarket[t.Market]
		if m == nil {
			m = &tally{}
			byMarket[t.Market] = m
		}
		m.total++
		if t.Success == models.Successful {
			m.successes++
		}
	}

	rates := make([]models.MarketRate, 0, len(byMarket))
	for market, m := range byMarket {
		rates = append(rates, models.MarketRate{
			Market:  market,
			Trips:   m.total,
			FlyRate: rate(m.successes, m.total),
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].FlyRate != rates[j].FlyRate {
			return rates[i].FlyRate > rates[j].FlyRate
		}
		return rates[i].Market < rates[j].Market
	})
	return rates
}

// cohortSummaries aggregates the non-empty cohorts, sorted by label
// descending (High Followers first).
func cohortSummaries(trips []*models.TripRecord, median float64) []models.CohortSummary {
	type tally struct {
		trips     int
		followers int
		heroes    map[string]struct{}
	}
	byCohort := make(map[string]*tally)
	for _, t := range trips {
		label := cohortOf(t, median)
		c := byCohort[label]
		if c == nil {
			c = &tally{heroes: make(map[string]struct{})}
			byCohort[label] = c
		}
		c.trips++
		c.followers += t.FollowerCount
		c.heroes[t.TourheroEmail] = struct{}{}
	}

	summaries := make([]models.CohortSummary, 0, len(byCohort))
	for label, c := range byCohort {
		summaries = append(summaries, models.CohortSummary{
			Cohort:          label,
			Trips:           c.trips,
			UniqueTourheros: len(c.heroes),
			AvgFollowers:    int(math.Round(float64(c.followers) / float64(c.trips))),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Cohort > summaries[j].Cohort
	})
	return summaries
}

// cohortMarkets is the market percentage breakdown within each non-empty
// cohort; each cohort's shares sum to 100 within rounding.
func cohortMarkets(trips []*models.TripRecord, median float64) []models.CohortMarketDist {
	byCohort := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, t := range trips {
		label := cohortOf(t, median)
		if byCohort[label] == nil {
			byCohort[label] = make(map[string]int)
		}
		byCohort[label][t.Market]++
		totals[label]++
	}

	labels := make([]string, 0, len(byCohort))
	for label := range byCohort {
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))

	dists := make([]models.CohortMarketDist, 0, len(labels))
	for _, label := range labels {
		shares := make([]models.MarketShare, 0, len(byCohort[label]))
		for market, n := range byCohort[label] {
			shares = append(shares, models.MarketShare{
				Market:  market,
				Percent: rate(n, totals[label]),
			})
		}
		sort.Slice(shares, func(i, j int) bool {
			return shares[i].Market < shares[j].Market
		})
		dists = append(dists, models.CohortMarketDist{Cohort: label, Shares: shares})
	}
	return dists
}

// Print renders the report and threshold verdict to the terminal.
func (s *InsightService) Print(r *models.Report, th models.ThresholdResult) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 TRIP FLY RATE ANALYSIS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// KPIs
	fmt.Printf("\033[1;33m  High-Level Metrics (current selection)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total trips analyzed   : \033[1m%d\033[0m\n", r.TotalTrips)
	fmt.Printf("  Overall fly rate       : \033[1;32m%.1f%%\033[0m\n", r.FlyRate)
	fmt.Printf("  Median follower count  : \033[1m%.0f\033[0m\n", r.MedianFollowers)
	fmt.Println()

	// Brackets
	fmt.Printf("\033[1;33m  Fly Rate by Follower Bracket\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, b := range r.BracketRates {
		bar := strings.Repeat("█", int(b.FlyRate/2))
		fmt.Printf("  %-10s %5d trips  %5.1f%%  %s\n", b.Bracket, b.Trips, b.FlyRate, bar)
	}
	fmt.Println()

	// Markets
	fmt.Printf("\033[1;33m  Fly Rate by Market\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.MarketRates) == 0 {
		fmt.Printf("  No market data\n")
	}
	for _, m := range r.MarketRates {
		fmt.Printf("  %-24s %5d trips  \033[1;32m%5.1f%%\033[0m\n", truncate(m.Market, 22), m.Trips, m.FlyRate)
	}
	fmt.Println()

	// Threshold
	fmt.Printf("\033[1;33m  Follower Threshold for a %d%% Target Fly Rate\033[0m\n", th.TargetRate)
	fmt.Printf("  %s\n", thin)
	if th.Reached {
		fmt.Printf("  Suggested minimum follower count: \033[1;32m%d\033[0m\n", th.MinFollowers)
	} else {
		fmt.Printf("  Target not reached — best achievable fly rate is \033[1;31m%.1f%%\033[0m\n", th.MaxRate)
	}
	fmt.Println()

	// Cohorts
	fmt.Printf("\033[1;33m  User Research Cohorts (median %.0f followers)\033[0m\n", r.MedianFollowers)
	fmt.Printf("  %s\n", thin)
	for _, c := range r.CohortSummaries {
		fmt.Printf("  %-28s %5d trips  %4d tourheros  avg %d followers\n",
			c.Cohort, c.Trips, c.UniqueTourheros, c.AvgFollowers)
	}
	fmt.Println()

	// Cohort composition by market
	fmt.Printf("\033[1;33m  Cohort Composition by Market\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, d := range r.CohortMarkets {
		fmt.Printf("  \033[1m%s\033[0m\n", d.Cohort)
		for _, sh := range d.Shares {
			fmt.Printf("    %-24s %5.1f%%\n", truncate(sh.Market, 22), sh.Percent)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
