package driven

import "github.com/custodia-labs/chapas/internal/core/domain"

// Exporter renders history records into a document format.
type Exporter interface {
	// Format returns the format this exporter produces.
	Format() domain.ExportFormat

	// Export renders records in the given order.
	Export(records []domain.Record) ([]byte, error)
}
