package source

import (
	"context"
	"errors"
	"strings"

	"flyrate-analyzer/models"
)

// ErrSourceNotFound means the configured data source does not exist.
// It is fatal for the session: no partial analysis runs without data.
var ErrSourceNotFound = errors.New("source: data source not found")

// TripSource is the interface any data acquisition backend must satisfy.
type TripSource interface {
	// Load fetches all rows as normalised column → value records.
	Load(ctx context.Context) ([]models.RawRecord, error)
	// Name identifies the source in logs.
	Name() string
}

// NormaliseColumn converts a header cell to its canonical form:
// trimmed, spaces replaced with underscores, lower-cased.
func NormaliseColumn(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// zipRecords pairs a header row with data rows into RawRecords.
// Short rows are padded with empty strings; extra cells are ignored.
func zipRecords(header []string, rows [][]string) []models.RawRecord {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = NormaliseColumn(h)
	}

	records := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := make(models.RawRecord, len(cols))
		for i, col := range cols {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
