package services

import (
	"errors"
	"strings"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// ErrEmptyResult is returned when a filter pass leaves zero trips.
// It is recoverable: the caller warns and skips the render pass.
var ErrEmptyResult = errors.New("filter: no trips match the current selection")

// FilterEngine applies a FilterConfig to a cleaned trip set.
type FilterEngine struct {
	logger *utils.Logger
}

// NewFilterEngine creates a FilterEngine with the given logger.
func NewFilterEngine(logger *utils.Logger) *FilterEngine {
	return &FilterEngine{logger: logger}
}

// Apply returns the subset of trips satisfying the conjunction of the
// config's predicates. The input is never mutated; predicates commute, so
// reapplying the same config to the output is a no-op. An empty result
// yields ErrEmptyResult.
func (f *FilterEngine) Apply(trips []*models.TripRecord, cfg models.FilterConfig) ([]*models.TripRecord, error) {
	markets := make(map[string]struct{}, len(cfg.Markets))
	for _, m := range cfg.Markets {
		markets[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}

	result := make([]*models.TripRecord, 0, len(trips))
	for _, t := range trips {
		if !matchesTripType(t, cfg.TripType) {
			continue
		}
		if len(markets) > 0 {
			if _, ok := markets[t.Market]; !ok {
				continue
			}
		}
		if !cfg.DateFrom.IsZero() && t.PublishedDate.Before(cfg.DateFrom) {
			continue
		}
		if !cfg.DateTo.IsZero() && t.PublishedDate.After(cfg.DateTo) {
			continue
		}
		if t.FollowerCount < cfg.MinFollowers {
			continue
		}
		if cfg.MaxFollowers >= 0 && t.FollowerCount > cfg.MaxFollowers {
			continue
		}
		result = append(result, t)
	}

	if len(result) == 0 {
		return nil, ErrEmptyResult
	}

	f.logger.Info("[filter] Selection: %d of %d trips", len(result), len(trips))
	return result, nil
}

func matchesTripType(t *models.TripRecord, tt models.TripType) bool {
	switch tt {
	case models.ShellOnly:
		return t.Shell
	case models.NonShellOnly:
		return !t.Shell
	default:
		return true
	}
}
