package services

import (
	"errors"
	"testing"
	"time"

	"flyrate-analyzer/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleTrips() []*models.TripRecord {
	return []*models.TripRecord{
		{TourID: "t-1", Market: "europe", PublishedDate: day("2024-01-10"), FollowerCount: 500, Shell: false, Success: models.Successful},
		{TourID: "t-2", Market: "asia", PublishedDate: day("2024-02-15"), FollowerCount: 8000, Shell: true, Success: models.Cancelled},
		{TourID: "t-3", Market: "europe", PublishedDate: day("2024-03-20"), FollowerCount: 25000, Shell: false, Success: models.Successful},
		{TourID: "t-4", Market: "latam", PublishedDate: day("2024-04-25"), FollowerCount: 120000, Shell: true, Success: models.Cancelled},
	}
}

func TestFilterNoPredicates(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	got, err := f.Apply(sampleTrips(), models.FilterConfig{MaxFollowers: -1})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected all 4 trips with no predicates, got %d", len(got))
	}
}

func TestFilterIsSubsetAndIdempotent(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	trips := sampleTrips()
	cfg := models.FilterConfig{
		TripType:     models.NonShellOnly,
		Markets:      []string{"europe"},
		MaxFollowers: -1,
	}

	once, err := f.Apply(trips, cfg)
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	full := make(map[string]bool, len(trips))
	for _, trip := range trips {
		full[trip.TourID] = true
	}
	for _, trip := range once {
		if !full[trip.TourID] {
			t.Errorf("filtered trip %s not in the full set", trip.TourID)
		}
	}

	twice, err := f.Apply(once, cfg)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(twice) != len(once) {
		t.Errorf("reapplying the same filter changed the result: %d → %d", len(once), len(twice))
	}
}

func TestFilterTripType(t *testing.T) {
	f := NewFilterEngine(newTestLogger())

	shells, err := f.Apply(sampleTrips(), models.FilterConfig{TripType: models.ShellOnly, MaxFollowers: -1})
	if err != nil {
		t.Fatalf("ShellOnly: %v", err)
	}
	for _, trip := range shells {
		if !trip.Shell {
			t.Errorf("ShellOnly returned non-shell trip %s", trip.TourID)
		}
	}

	nonShells, err := f.Apply(sampleTrips(), models.FilterConfig{TripType: models.NonShellOnly, MaxFollowers: -1})
	if err != nil {
		t.Fatalf("NonShellOnly: %v", err)
	}
	if len(shells)+len(nonShells) != 4 {
		t.Errorf("shell split lost trips: %d + %d != 4", len(shells), len(nonShells))
	}
}

func TestFilterEmptyMarketsMeansNoFilter(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	got, err := f.Apply(sampleTrips(), models.FilterConfig{Markets: nil, MaxFollowers: -1})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("empty market selection must not exclude anything, got %d trips", len(got))
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	cfg := models.FilterConfig{
		DateFrom:     day("2024-02-15"),
		DateTo:       day("2024-03-20"),
		MaxFollowers: -1,
	}
	got, err := f.Apply(sampleTrips(), cfg)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 boundary trips, got %d", len(got))
	}
}

func TestFilterDateRangeIncludesDatetimePublished(t *testing.T) {
	c := NewCleaner(newTestLogger())
	trips, err := c.Clean([]models.RawRecord{
		rawRow(map[string]string{"tour_id": "t-1", "published_date": "2024-03-20 10:30:00"}),
	})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 cleaned trip, got %d", len(trips))
	}

	f := NewFilterEngine(newTestLogger())
	cfg := models.DefaultFilterConfig()
	cfg.DateFrom = day("2024-03-01")
	cfg.DateTo = day("2024-03-20")

	got, err := f.Apply(trips, cfg)
	if err != nil {
		t.Fatalf("a trip published during the DateTo day must pass the inclusive range: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected the boundary-day trip to be included, got %d trips", len(got))
	}
}

func TestFilterFollowerRangeInclusive(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	cfg := models.FilterConfig{MinFollowers: 8000, MaxFollowers: 25000}
	got, err := f.Apply(sampleTrips(), cfg)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trips at the inclusive bounds, got %d", len(got))
	}
}

func TestFilterEmptyResult(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	cfg := models.FilterConfig{Markets: []string{"antarctica"}, MaxFollowers: -1}
	_, err := f.Apply(sampleTrips(), cfg)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
