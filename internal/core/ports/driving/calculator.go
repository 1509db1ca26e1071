package driving

import (
	"context"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// CalculatorService creates, evaluates and saves worksheets.
type CalculatorService interface {
	// New returns an empty worksheet with configured master defaults.
	New(t domain.CalculatorType) (domain.Calculation, error)

	// NextItemID returns a fresh line item id.
	NextItemID() domain.ItemID

	// Evaluate computes subtotals and total. It never fails.
	Evaluate(c domain.Calculation) domain.Result

	// Save appends c to history. Returns domain.ErrSaveRejected without
	// touching storage when the total is zero or below.
	Save(ctx context.Context, c domain.Calculation) (domain.Record, error)
}
