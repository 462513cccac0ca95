package services

import (
	"sort"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// ThresholdCalculator answers the interactive threshold query: the lowest
// follower count such that the group of all trips at or above it still
// meets a target fly rate.
type ThresholdCalculator struct {
	logger *utils.Logger
}

func NewThresholdCalculator(logger *utils.Logger) *ThresholdCalculator {
	return &ThresholdCalculator{logger: logger}
}

// Compute walks the selection sorted by follower count descending,
// tracking the cumulative fly rate of each "at or above" prefix. Every
// prefix is evaluated independently — the rate is not monotonic, so a dip
// below the target does not end the walk. The answer is the follower
// count of the last (lowest) record whose prefix still meets the target;
// if no prefix does, the result carries the best rate achieved instead.
// target is a percentage in [1,100].
func (c *ThresholdCalculator) Compute(trips []*models.TripRecord, target int) models.ThresholdResult {
	result := models.ThresholdResult{TargetRate: target}
	if len(trips) == 0 {
		return result
	}

	sorted := make([]*models.TripRecord, len(trips))
	copy(sorted, trips)
	// Stable sort keeps ties in input order: arbitrary but deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FollowerCount > sorted[j].FollowerCount
	})

	successes := 0
	for i, t := range sorted {
		if t.Success == models.Successful {
			successes++
		}
		atOrAbove := float64(successes) / float64(i+1) * 100
		if atOrAbove > result.MaxRate {
			result.MaxRate = atOrAbove
		}
		if atOrAbove >= float64(target) {
			result.Reached = true
			result.MinFollowers = t.FollowerCount
		}
	}

	if result.Reached {
		c.logger.Debug("[threshold] target %d%% reachable at ≥%d followers",
			target, result.MinFollowers)
	} else {
		c.logger.Debug("[threshold] target %d%% unreachable, max rate %.1f%%",
			target, result.MaxRate)
	}
	return result
}
