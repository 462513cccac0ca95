package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"flyrate-analyzer/models"
)

// CSVExporter writes per-cohort row subsets to CSV files in a directory.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates the export directory if needed.
func NewCSVExporter(dir string) (*CSVExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	return &CSVExporter{dir: dir}, nil
}

// Export writes one cohort's rows with the fixed four-column header and
// returns the file path. The file name is the cohort label with spaces
// replaced by underscores and the separator removed.
func (e *CSVExporter) Export(cohort string, rows []models.CohortRow) (string, error) {
	path := filepath.Join(e.dir, cohortFileName(cohort))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tourhero_email", "tour_id", "follower_count", "trip_success"}); err != nil {
		return "", fmt.Errorf("export: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.TourheroEmail,
			r.TourID,
			strconv.Itoa(r.FollowerCount),
			string(r.Success),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("export: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

func cohortFileName(cohort string) string {
	name := strings.ReplaceAll(cohort, " ", "_")
	name = strings.ReplaceAll(name, "|", "")
	return name + ".csv"
}
