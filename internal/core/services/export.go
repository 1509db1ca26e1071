package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
	"github.com/custodia-labs/chapas/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService renders history records. JSON is always available and uses
// the persisted log encoding. Other formats come from registered exporters.
type ExportService struct {
	history   driving.HistoryService
	exporters map[domain.ExportFormat]driven.Exporter
	codec     RecordCodec
}

// NewExportService creates an export service with the given exporters.
func NewExportService(history driving.HistoryService, exporters ...driven.Exporter) *ExportService {
	s := &ExportService{
		history:   history,
		exporters: make(map[domain.ExportFormat]driven.Exporter),
		codec:     NewRecordCodec(),
	}
	for _, e := range exporters {
		s.exporters[e.Format()] = e
	}
	return s
}

// Formats lists the formats that can be exported.
func (s *ExportService) Formats() []domain.ExportFormat {
	formats := []domain.ExportFormat{domain.ExportFormatJSON}
	for f := range s.exporters {
		if f != domain.ExportFormatJSON {
			formats = append(formats, f)
		}
	}
	rest := formats[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return formats
}

// Export renders records in format. Nil records exports the whole history.
func (s *ExportService) Export(
	ctx context.Context,
	format domain.ExportFormat,
	records []domain.Record,
) ([]byte, error) {
	if records == nil {
		if s.history == nil {
			return nil, fmt.Errorf("%w: no records to export", domain.ErrInvalidInput)
		}
		records = s.history.List(ctx)
	}
	logger.Debug("Exporting %d records as %s", len(records), format)

	if e, ok := s.exporters[format]; ok {
		return e.Export(records)
	}
	if format == domain.ExportFormatJSON {
		return s.exportJSON(records)
	}
	return nil, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, format)
}

func (s *ExportService) exportJSON(records []domain.Record) ([]byte, error) {
	entries := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := s.codec.EncodeRecord(r)
		if err != nil {
			logger.Warn("Skipping record %d in export: %v", r.ID, err)
			continue
		}
		entries = append(entries, data)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent export: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
