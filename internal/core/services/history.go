package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
	"github.com/custodia-labs/chapas/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService keeps the history log under a single key of a
// KeyValueStore.
//
// Append is a read-modify-write with no lock or transaction around it. Two
// concurrent appends can both read the same log and the later write then
// drops the earlier record. The CLI, TUI and MCP server each run a single
// caller at a time, so this is not guarded against.
type HistoryService struct {
	store driven.KeyValueStore
	key   string
	codec RecordCodec
}

// NewHistoryService creates a history service over store. An empty key
// uses domain.DefaultHistoryKey.
func NewHistoryService(store driven.KeyValueStore, key string) *HistoryService {
	if key == "" {
		key = domain.DefaultHistoryKey
	}
	return &HistoryService{
		store: store,
		key:   key,
		codec: NewRecordCodec(),
	}
}

// Key returns the storage key of the log.
func (s *HistoryService) Key() string {
	return s.key
}

// Append prepends record to the log. Existing elements are written back
// without being decoded, so records of types this version does not know
// survive.
// If the stored log cannot be read or parsed nothing is written.
func (s *HistoryService) Append(ctx context.Context, record domain.Record) error {
	encoded, err := s.codec.EncodeRecord(record)
	if err != nil {
		return err
	}

	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("%w: read history: %w", domain.ErrStorage, err)
	}

	var entries []json.RawMessage
	if ok {
		entries, err = s.codec.DecodeLog(raw)
		if err != nil {
			return fmt.Errorf("%w: existing history is unreadable: %w", domain.ErrStorage, err)
		}
	}

	entries = append([]json.RawMessage{encoded}, entries...)
	data, err := s.codec.EncodeLog(entries)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: write history: %w", domain.ErrStorage, err)
	}
	logger.Debug("Appended record %d (%s), history now has %d records", record.ID, record.Type, len(entries))
	return nil
}

// List returns the log newest first. An absent key, a failed read or an
// unparseable log all yield an empty list. Malformed elements are skipped.
func (s *HistoryService) List(ctx context.Context) []domain.Record {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		logger.Warn("Could not read history: %v", err)
		return []domain.Record{}
	}
	if !ok {
		return []domain.Record{}
	}

	entries, err := s.codec.DecodeLog(raw)
	if err != nil {
		logger.Warn("History is unreadable, showing it as empty: %v", err)
		return []domain.Record{}
	}

	records := make([]domain.Record, 0, len(entries))
	for i, entry := range entries {
		r, err := s.codec.DecodeRecord(entry)
		if err != nil {
			logger.Warn("Skipping history entry %d: %v", i, err)
			continue
		}
		records = append(records, r)
	}
	return records
}

// Get returns the record with the given id.
func (s *HistoryService) Get(ctx context.Context, id int64) (domain.Record, error) {
	for _, r := range s.List(ctx) {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Record{}, fmt.Errorf("%w: record %d", domain.ErrNotFound, id)
}

// Clear removes the log key.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("%w: clear history: %w", domain.ErrStorage, err)
	}
	logger.Debug("Cleared history key %q", s.key)
	return nil
}

// Watch reports external changes to the log if the store supports it.
func (s *HistoryService) Watch(ctx context.Context) (<-chan struct{}, error) {
	ws, ok := s.store.(driven.WatchableStore)
	if !ok {
		return nil, domain.ErrWatchUnsupported
	}
	return ws.Watch(ctx, s.key)
}
