package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"flyrate-analyzer/config"
	"flyrate-analyzer/models"
	"flyrate-analyzer/services"
	"flyrate-analyzer/source"
	"flyrate-analyzer/storage"
	"flyrate-analyzer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Fly Rate Analysis starting ===")
	logger.Info("Config — source: %s | target rate: %d%% | cache TTL: %ds",
		cfg.DataSource, cfg.TargetFlyRate, cfg.CacheTTLSeconds)

	src, err := newSource(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up data source: %v", err)
		os.Exit(1)
	}
	if cfg.CacheTTLSeconds > 0 {
		src = source.NewCachedSource(src, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	ctx := context.Background()
	raw, err := src.Load(ctx)
	if err != nil {
		if errors.Is(err, source.ErrSourceNotFound) {
			logger.Error("Data source not found: %v", err)
			logger.Error("Check the name and sharing permissions of the configured source.")
		} else {
			logger.Error("Loading data failed: %v", err)
		}
		os.Exit(1)
	}
	logger.Info("Loaded %d raw rows from %s", len(raw), src.Name())

	cleaner := services.NewCleaner(logger)
	trips, err := cleaner.Clean(raw)
	if err != nil {
		logger.Error("Cleaning failed: %v", err)
		os.Exit(1)
	}
	if len(trips) == 0 {
		logger.Error("No usable trips after cleaning. Exiting.")
		os.Exit(1)
	}

	filterCfg := buildFilter(cfg, logger)
	engine := services.NewFilterEngine(logger)
	filtered, err := engine.Apply(trips, filterCfg)
	if err != nil {
		if errors.Is(err, services.ErrEmptyResult) {
			logger.Warn("No data for the current filter selection. Widen the filter criteria and retry.")
			os.Exit(0)
		}
		logger.Error("Filtering failed: %v", err)
		os.Exit(1)
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(filtered)

	calc := services.NewThresholdCalculator(logger)
	threshold := calc.Compute(filtered, clampRate(cfg.TargetFlyRate))

	insightSvc.Print(report, threshold)

	exporter, err := storage.NewCSVExporter(cfg.ExportDir)
	if err != nil {
		logger.Error("Failed to create exporter: %v", err)
		os.Exit(1)
	}
	for _, c := range report.CohortSummaries {
		rows := insightSvc.CohortRows(filtered, c.Cohort)
		path, err := exporter.Export(c.Cohort, rows)
		if err != nil {
			logger.Error("Cohort export failed for %q: %v", c.Cohort, err)
			continue
		}
		logger.Info("Exported %d rows → %s", len(rows), path)
	}

	fmt.Printf("  Done. Cohort CSVs → %s\n\n", cfg.ExportDir)
}

// newSource picks the acquisition backend from config.
func newSource(cfg *config.Config, logger *utils.Logger) (source.TripSource, error) {
	switch cfg.DataSource {
	case "sheet":
		return source.NewSheetSource(cfg, logger), nil
	case "csv":
		return source.NewCSVSource(cfg.CSVInputPath, logger), nil
	case "postgres":
		return source.NewPostgresSource(cfg.DSN(), logger)
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q (want sheet, csv or postgres)", cfg.DataSource)
	}
}

// buildFilter translates the env-level filter settings into a
// FilterConfig, warning about values it cannot parse.
func buildFilter(cfg *config.Config, logger *utils.Logger) models.FilterConfig {
	fc := models.DefaultFilterConfig()
	fc.MinFollowers = cfg.MinFollowers
	fc.MaxFollowers = cfg.MaxFollowers

	switch strings.ToLower(cfg.TripType) {
	case "shell":
		fc.TripType = models.ShellOnly
	case "non-shell":
		fc.TripType = models.NonShellOnly
	case "", "all":
		fc.TripType = models.AllTrips
	default:
		logger.Warn("Unknown TRIP_TYPE %q, analyzing all trips", cfg.TripType)
	}

	if cfg.Markets != "" {
		for _, m := range strings.Split(cfg.Markets, ",") {
			if m = strings.TrimSpace(m); m != "" {
				fc.Markets = append(fc.Markets, m)
			}
		}
	}

	fc.DateFrom = parseFilterDate(cfg.DateFrom, "DATE_FROM", logger)
	fc.DateTo = parseFilterDate(cfg.DateTo, "DATE_TO", logger)

	return fc
}

func parseFilterDate(raw, key string, logger *utils.Logger) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		logger.Warn("Ignoring %s %q: want YYYY-MM-DD", key, raw)
		return time.Time{}
	}
	return t
}

// clampRate keeps the target inside the slider range of the analysis.
func clampRate(target int) int {
	if target < 1 {
		return 1
	}
	if target > 100 {
		return 100
	}
	return target
}
