package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
	"github.com/custodia-labs/chapas/internal/logger"
)

// Ensure CalculatorService implements the interface.
var _ driving.CalculatorService = (*CalculatorService)(nil)

// CalculatorService creates worksheets and applies the save policy.
type CalculatorService struct {
	history  driving.HistoryService
	settings driving.SettingsService
	ids      *idClock
}

// NewCalculatorService creates a calculator service. settings may be nil,
// in which case built-in defaults prefill new worksheets.
func NewCalculatorService(history driving.HistoryService, settings driving.SettingsService) *CalculatorService {
	return &CalculatorService{
		history:  history,
		settings: settings,
		ids:      newIDClock(),
	}
}

// New returns an empty worksheet of type t.
func (s *CalculatorService) New(t domain.CalculatorType) (domain.Calculation, error) {
	defaults := domain.DefaultAppSettings().Defaults
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil {
			defaults = cfg.Defaults
		} else {
			logger.Warn("Using built-in defaults: %v", err)
		}
	}
	c, err := defaults.NewCalculation(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, t)
	}
	return c, nil
}

// NextItemID returns a fresh line item id.
func (s *CalculatorService) NextItemID() domain.ItemID {
	return domain.ItemID(s.ids.next())
}

// Evaluate computes subtotals and total.
func (s *CalculatorService) Evaluate(c domain.Calculation) domain.Result {
	return domain.Evaluate(c)
}

// Save snapshots c into a record and appends it to history. Calculations
// with a total of zero or below are refused before any storage access.
func (s *CalculatorService) Save(ctx context.Context, c domain.Calculation) (domain.Record, error) {
	if c == nil {
		return domain.Record{}, fmt.Errorf("%w: no calculation", domain.ErrInvalidInput)
	}
	c = c.Clone()
	if !domain.Savable(c) {
		logger.Debug("Refusing to save %s with total %v", c.Type(), c.Total())
		return domain.Record{}, domain.ErrSaveRejected
	}
	if s.history == nil {
		return domain.Record{}, errors.New("history service not configured")
	}

	record := domain.NewRecord(s.ids.next(), c)
	if err := s.history.Append(ctx, record); err != nil {
		return domain.Record{}, err
	}
	logger.Info("Saved %s record %d, total %s", record.Type, record.ID, record.DisplayTotal())
	return record, nil
}
