package services

import (
	"math"
	"testing"

	"flyrate-analyzer/models"
)

func thresholdTrips(outcomes []models.TripSuccess, counts []int) []*models.TripRecord {
	trips := make([]*models.TripRecord, len(outcomes))
	for i := range outcomes {
		trips[i] = &models.TripRecord{FollowerCount: counts[i], Success: outcomes[i]}
	}
	return trips
}

// Reference vector: successes [S,S,C,S] at counts [90,80,70,60] give
// prefix rates [100, 100, 66.7, 75].
func referenceTrips() []*models.TripRecord {
	return thresholdTrips(
		[]models.TripSuccess{models.Successful, models.Successful, models.Cancelled, models.Successful},
		[]int{90, 80, 70, 60},
	)
}

func TestThresholdPicksLowestQualifyingCount(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())
	res := calc.Compute(referenceTrips(), 70)
	if !res.Reached {
		t.Fatal("target 70% should be reachable")
	}
	// Prefixes 1, 2 and 4 qualify; the answer is the last qualifying
	// row's count, not the first dip below the target.
	if res.MinFollowers != 60 {
		t.Errorf("MinFollowers = %d; want 60", res.MinFollowers)
	}
}

func TestThresholdPerfectRate(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())
	res := calc.Compute(referenceTrips(), 100)
	if !res.Reached {
		t.Fatal("target 100% should be reachable")
	}
	if res.MinFollowers != 80 {
		t.Errorf("MinFollowers = %d; want 80", res.MinFollowers)
	}
}

func TestThresholdUnsortedInput(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())
	trips := thresholdTrips(
		[]models.TripSuccess{models.Successful, models.Cancelled, models.Successful, models.Successful},
		[]int{60, 70, 90, 80},
	)
	res := calc.Compute(trips, 70)
	if !res.Reached || res.MinFollowers != 60 {
		t.Errorf("got (%v, %d); want reached at 60 regardless of input order", res.Reached, res.MinFollowers)
	}
}

func TestThresholdNotReached(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())
	trips := thresholdTrips(
		[]models.TripSuccess{models.Cancelled, models.Successful},
		[]int{100, 50},
	)
	res := calc.Compute(trips, 80)
	if res.Reached {
		t.Fatal("target 80% should not be reachable")
	}
	if math.Abs(res.MaxRate-50) > 1e-9 {
		t.Errorf("MaxRate = %.1f; want 50.0", res.MaxRate)
	}
}

func TestThresholdSingleRecord(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())

	success := thresholdTrips([]models.TripSuccess{models.Successful}, []int{42})
	res := calc.Compute(success, 100)
	if !res.Reached || res.MinFollowers != 42 {
		t.Errorf("single success: got (%v, %d); want reached at 42", res.Reached, res.MinFollowers)
	}

	cancelled := thresholdTrips([]models.TripSuccess{models.Cancelled}, []int{42})
	res = calc.Compute(cancelled, 1)
	if res.Reached {
		t.Error("single cancelled trip can never reach a 1% target")
	}
	if res.MaxRate != 0 {
		t.Errorf("MaxRate = %.1f; want 0", res.MaxRate)
	}
}

func TestThresholdEmptyInput(t *testing.T) {
	calc := NewThresholdCalculator(newTestLogger())
	res := calc.Compute(nil, 50)
	if res.Reached || res.MaxRate != 0 {
		t.Errorf("empty input: got %+v; want zero result", res)
	}
}
