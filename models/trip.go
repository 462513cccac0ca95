package models

import "time"

// RawRecord holds one unprocessed row from the data source, keyed by
// normalised column name (spaces → underscores, lower-cased).
// This is what the cleaner validates and coerces into a TripRecord.
type RawRecord map[string]string

// TripSuccess is the two-valued trip outcome derived from the status column.
type TripSuccess string

const (
	Successful TripSuccess = "Successful"
	Cancelled  TripSuccess = "Cancelled"
)

// TripRecord is the cleaned, validated record the analysis runs over.
// Records are immutable once loaded; everything downstream is a pure
// function of a slice of these.
type TripRecord struct {
	TourID        string
	TourheroEmail string
	Market        string
	PublishedDate time.Time
	FollowerCount int
	Shell         bool
	Status        string
	Success       TripSuccess
}

// BracketLabels are the six fixed follower brackets, in ascending order.
// Boundaries are half-open: exactly 5000 followers lands in "5k-20k".
var BracketLabels = [...]string{"0-5k", "5k-20k", "20k-50k", "50k-100k", "100k-500k", "500k+"}

// bracketBounds holds the lower bound of each bracket above the first.
var bracketBounds = [...]int{5000, 20000, 50000, 100000, 500000}

// BracketIndex returns the index into BracketLabels for a follower count.
func BracketIndex(followers int) int {
	for i, bound := range bracketBounds {
		if followers < bound {
			return i
		}
	}
	return len(bracketBounds)
}

// Follower-level labels for cohort assignment, relative to the median of
// the currently filtered set.
const (
	HighFollowers = "High Followers"
	LowFollowers  = "Low Followers"
)

// CohortLabel joins a follower level and an outcome into one of the four
// cohort names, e.g. "High Followers | Successful".
func CohortLabel(level string, success TripSuccess) string {
	return level + " | " + string(success)
}

// TripType selects which trips pass the shell predicate.
type TripType int

const (
	AllTrips TripType = iota
	ShellOnly
	NonShellOnly
)

// FilterConfig is the immutable set of predicates one analysis pass runs
// with. A zero DateFrom/DateTo means unbounded on that side; MaxFollowers
// < 0 means unbounded above. An empty Markets slice applies no market
// filtering at all. Start from DefaultFilterConfig rather than the zero
// value: MaxFollowers 0 is a real bound that excludes every trip with
// followers.
type FilterConfig struct {
	TripType     TripType
	Markets      []string
	DateFrom     time.Time
	DateTo       time.Time
	MinFollowers int
	MaxFollowers int
}

// DefaultFilterConfig returns a config with every predicate unbounded:
// all trip types, all markets, all dates, all follower counts.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MaxFollowers: -1}
}

// BracketRate is the fly rate and share of one follower bracket.
type BracketRate struct {
	Bracket string
	Trips   int
	FlyRate float64
	Share   float64
}

// MarketRate is the fly rate of one market.
type MarketRate struct {
	Market  string
	Trips   int
	FlyRate float64
}

// CohortSummary aggregates one of the four cohorts.
type CohortSummary struct {
	Cohort          string
	Trips           int
	UniqueTourheros int
	AvgFollowers    int
}

// MarketShare is one market's percentage within a cohort.
type MarketShare struct {
	Market  string
	Percent float64
}

// CohortMarketDist is the market breakdown of one cohort; the shares of a
// nonempty cohort sum to 100 (within rounding).
type CohortMarketDist struct {
	Cohort string
	Shares []MarketShare
}

// Report holds every computed statistic for one filtered selection.
type Report struct {
	TotalTrips      int
	SuccessfulTrips int
	FlyRate         float64
	MedianFollowers float64

	BracketRates    []BracketRate
	MarketRates     []MarketRate
	CohortSummaries []CohortSummary
	CohortMarkets   []CohortMarketDist
}

// ThresholdResult is the outcome of the cumulative-threshold query.
// When Reached is false the target was unattainable and MaxRate carries
// the best fly rate any at-or-above group achieved.
type ThresholdResult struct {
	TargetRate   int
	Reached      bool
	MinFollowers int
	MaxRate      float64
}

// CohortRow is the exportable row subset for one cohort member.
type CohortRow struct {
	TourheroEmail string
	TourID        string
	FollowerCount int
	Success       TripSuccess
}
