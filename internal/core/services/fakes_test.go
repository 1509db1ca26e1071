package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

var errDisk = errors.New("disk on fire")

// recordingStore wraps a map and counts calls. Errors can be injected per
// operation.
type recordingStore struct {
	mu        sync.Mutex
	values    map[string]string
	gets      int
	sets      int
	removes   int
	getErr    error
	setErr    error
	removeErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: make(map[string]string)}
}

func (s *recordingStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *recordingStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *recordingStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.values, key)
	return nil
}

func (s *recordingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets + s.sets + s.removes
}

// watchingStore adds change notification to recordingStore.
type watchingStore struct {
	*recordingStore
	ch chan struct{}
}

func (s *watchingStore) Watch(_ context.Context, _ string) (<-chan struct{}, error) {
	return s.ch, nil
}

// stubExporter renders record ids as text.
type stubExporter struct {
	format domain.ExportFormat
	got    []domain.Record
}

func (e *stubExporter) Format() domain.ExportFormat { return e.format }

func (e *stubExporter) Export(records []domain.Record) ([]byte, error) {
	e.got = records
	return []byte(e.format.String()), nil
}

func sampleSheets() *domain.SheetsByWeightCalc {
	return domain.NewSheetsByWeight(
		domain.SheetMass{Length: "2000", Width: "1000", Weight: "50"},
		domain.SheetWeightPiece{ID: 11, Quantity: "2", PieceLength: "500", PieceWidth: "250"},
	)
}

func sampleBars() *domain.BarsByWeightCalc {
	return domain.NewBarsByWeight(
		domain.BarMass{Length: "6000", Weight: "24"},
		domain.BarPiece{ID: 21, AssemblyQty: "2", PieceQty: "3", PieceLength: "500"},
	)
}

func sampleUnits() *domain.SheetsByUnitCalc {
	return domain.NewSheetsByUnit(
		domain.DefaultSheetArea(),
		domain.SheetUnitPiece{ID: 31, PieceLength: "1000", PieceWidth: "500", Quantity: "4"},
	)
}

func samplePaint() *domain.PaintByAreaCalc {
	return domain.NewPaintByArea(
		domain.DefaultPaintCoverageRate(),
		domain.PaintArea{ID: 41, Length: "1000", Width: "500", FaceCount: "2"},
	)
}
