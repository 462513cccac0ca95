package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"flyrate-analyzer/models"
	"flyrate-analyzer/utils"
)

// PostgresSource loads trip rows from a PostgreSQL trips table.
type PostgresSource struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresSource opens a connection to PostgreSQL and returns a
// ready-to-use PostgresSource.
func NewPostgresSource(dsn string, logger *utils.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresSource{db: db, logger: logger}, nil
}

func (p *PostgresSource) Name() string {
	return "postgres trips table"
}

// Load selects the seven analysis columns, rendered as text so the
// cleaner applies the same coercion rules as for spreadsheet data.
func (p *PostgresSource) Load(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT tour_id, tourhero_email, market,
		       COALESCE(published_date::text, ''),
		       COALESCE(follower_count::text, ''),
		       COALESCE(shell::text, ''),
		       fixed_active_status
		FROM trips
		ORDER BY tour_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query trips: %w", err)
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var tourID, email, market, published, followers, shell, status string
		if err := rows.Scan(&tourID, &email, &market, &published, &followers, &shell, &status); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, models.RawRecord{
			"tour_id":             tourID,
			"tourhero_email":      email,
			"market_-_cleaned":    market,
			"published_date":      published,
			"follower_count":      followers,
			"shell":               shell,
			"fixed_active_status": status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("[postgres] Loaded %d rows from trips table", len(records))
	return records, nil
}

// Close releases the database connection.
func (p *PostgresSource) Close() error {
	return p.db.Close()
}
