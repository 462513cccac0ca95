package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// ErrSchemaMismatch is returned when the source is missing required columns.
var ErrSchemaMismatch = errors.New("cleaner: schema mismatch")

// Column names after normalisation (spaces → underscores, lower-cased).
const (
	colTourID    = "tour_id"
	colEmail     = "tourhero_email"
	colMarket    = "market_-_cleaned"
	colPublished = "published_date"
	colFollowers = "follower_count"
	colShell     = "shell"
	colStatus    = "fixed_active_status"
)

var requiredColumns = []string{
	colTourID, colEmail, colMarket, colPublished, colFollowers, colShell, colStatus,
}

// excludedMarket rows are dropped unconditionally, independent of any
// user-selected market filter.
const excludedMarket = "mba"

// allowedStatuses is the whitelist of retained trip statuses; anything
// else is dropped from the working set.
var allowedStatuses = map[string]bool{
	"cancelled": true,
	"done":      true,
	"live":      true,
	"confirmed": true,
}

// successStatuses map to the Successful outcome; the remaining allowed
// status (cancelled) maps to Cancelled.
var successStatuses = map[string]bool{
	"done":      true,
	"live":      true,
	"confirmed": true,
}

// dateLayouts are tried in order when parsing published dates.
// Spreadsheet exports mix these.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Cleaner transforms RawRecords into clean, validated TripRecords.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean validates the schema and coerces raw rows into TripRecords,
// applying the unconditional cleaning rules: rows with missing dates,
// the excluded market, an unknown status, or a duplicate tour id are
// dropped. Malformed follower counts coerce to 0 rather than erroring.
func (c *Cleaner) Clean(raw []models.RawRecord) ([]*models.TripRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	if missing := missingColumns(raw[0]); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	seen := make(map[string]struct{})
	result := make([]*models.TripRecord, 0, len(raw))

	for _, r := range raw {
		tourID := strings.TrimSpace(r[colTourID])
		if tourID == "" {
			c.logger.Debug("[cleaner] Dropping row with empty tour_id")
			continue
		}
		if _, dup := seen[tourID]; dup {
			c.logger.Debug("[cleaner] Duplicate tour_id skipped: %s", tourID)
			continue
		}

		published, ok := parseDate(r[colPublished])
		if !ok {
			c.logger.Debug("[cleaner] Dropping %s: missing or unparseable published_date %q",
				tourID, r[colPublished])
			continue
		}

		market := normaliseMarket(r[colMarket])
		if market == excludedMarket {
			continue
		}

		status := strings.ToLower(strings.TrimSpace(r[colStatus]))
		if !allowedStatuses[status] {
			c.logger.Debug("[cleaner] Dropping %s: status %q not retained", tourID, status)
			continue
		}

		seen[tourID] = struct{}{}
		result = append(result, &models.TripRecord{
			TourID:        tourID,
			TourheroEmail: strings.TrimSpace(r[colEmail]),
			Market:        market,
			PublishedDate: published,
			FollowerCount: parseFollowers(r[colFollowers]),
			Shell:         parseShell(r[colShell]),
			Status:        status,
			Success:       mapSuccess(status),
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d trips (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result, nil
}

func missingColumns(r models.RawRecord) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := r[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// mapSuccess collapses the four retained statuses into the two outcomes.
func mapSuccess(status string) models.TripSuccess {
	if successStatuses[status] {
		return models.Successful
	}
	return models.Cancelled
}

// parseFollowers coerces a raw follower count to a non-negative integer.
// Examples:
//   "12,345" → 12345
//   "8500.0" → 8500
//   "" or "n/a" → 0
func parseFollowers(raw string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || val < 0 {
		return 0
	}
	return int(val)
}

// parseShell maps case-insensitive TRUE/FALSE text; anything else is false.
func parseShell(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "TRUE")
}

// parseDate tries the known layouts; ok is false when no layout matches.
// Published dates are calendar dates: any time-of-day component is
// dropped so inclusive date-range filters hold on the boundary days.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func normaliseMarket(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
