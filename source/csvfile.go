package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// CSVSource loads trip rows from a local CSV file whose first row is the
// header.
type CSVSource struct {
	path   string
	logger *utils.Logger
}

// NewCSVSource creates a CSVSource reading from the given path.
func NewCSVSource(path string, logger *utils.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

func (c *CSVSource) Name() string {
	return "csv " + c.path
}

// Load reads the whole file; a missing file maps to ErrSourceNotFound.
func (c *CSVSource) Load(ctx context.Context) ([]models.RawRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %q", ErrSourceNotFound, c.path)
		}
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; zipRecords pads them
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
	}

	if len(rows) < 2 {
		c.logger.Warn("[csv] File has no data rows")
		return nil, nil
	}

	records := zipRecords(rows[0], rows[1:])
	c.logger.Info("[csv] Loaded %d rows from %s", len(records), c.path)
	return records, nil
}
