package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"flyrate-analyzer/config"
	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// SheetSource loads trip rows from a private Google Sheet using a
// service-account credentials file. The first row of the fetched range is
// treated as the header.
type SheetSource struct {
	spreadsheetID string
	readRange     string
	credsFile     string
	logger        *utils.Logger
	retry         *utils.RetryConfig
}

// NewSheetSource creates a SheetSource from the application config.
func NewSheetSource(cfg *config.Config, logger *utils.Logger) *SheetSource {
	return &SheetSource{
		spreadsheetID: cfg.SheetID,
		readRange:     cfg.SheetRange,
		credsFile:     cfg.GoogleCredentials,
		logger:        logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

func (s *SheetSource) Name() string {
	return fmt.Sprintf("sheet %s!%s", s.spreadsheetID, s.readRange)
}

// Load fetches the configured range with retry and converts it to
// RawRecords. A sheet or range that does not exist maps to
// ErrSourceNotFound.
func (s *SheetSource) Load(ctx context.Context) ([]models.RawRecord, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(s.credsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheet: create service: %w", err)
	}

	var resp *sheets.ValueRange
	err = s.retry.Do(ctx, "sheet fetch", func() error {
		var ferr error
		resp, ferr = srv.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
		return ferr
	})
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: spreadsheet %q", ErrSourceNotFound, s.spreadsheetID)
		}
		return nil, fmt.Errorf("sheet: fetch values: %w", err)
	}

	if len(resp.Values) < 2 {
		s.logger.Warn("[sheet] Sheet has no data rows")
		return nil, nil
	}

	header := cellsToStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rows = append(rows, cellsToStrings(row))
	}

	records := zipRecords(header, rows)
	s.logger.Info("[sheet] Loaded %d rows from %s", len(records), s.Name())
	return records, nil
}

// cellsToStrings renders sheet cells (which arrive untyped) as text.
func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}
