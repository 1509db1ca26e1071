package driving

import (
	"context"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// HistoryService manages the append-only history log.
type HistoryService interface {
	// Append prepends record to the log.
	Append(ctx context.Context, record domain.Record) error

	// List returns the log newest first. Read failures yield an empty list.
	List(ctx context.Context) []domain.Record

	// Get returns the record with the given id.
	Get(ctx context.Context, id int64) (domain.Record, error)

	// Clear removes the whole log.
	Clear(ctx context.Context) error

	// Watch reports external changes to the log.
	// Returns domain.ErrWatchUnsupported when the store cannot watch.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
