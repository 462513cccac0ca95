package storage

import "flyrate-analyzer/models"

// CohortExporter is the interface any cohort export backend must satisfy.
type CohortExporter interface {
	// Export writes the row subset for one cohort and returns the
	// destination path.
	Export(cohort string, rows []models.CohortRow) (string, error)
}
