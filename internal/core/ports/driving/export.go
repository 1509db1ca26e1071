package driving

import (
	"context"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// ExportService renders history to documents.
type ExportService interface {
	// Formats lists the formats that can be exported.
	Formats() []domain.ExportFormat

	// Export renders records. Nil records means the whole history.
	Export(ctx context.Context, format domain.ExportFormat, records []domain.Record) ([]byte, error)
}
