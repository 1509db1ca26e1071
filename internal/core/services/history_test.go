package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chapas/internal/core/domain"
)

func TestNewHistoryService_DefaultKey(t *testing.T) {
	s := NewHistoryService(memory.NewKVStore(), "")
	assert.Equal(t, "@calculos_chapas_history", s.Key())
}

func TestHistoryService_AppendThenList(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryService(memory.NewKVStore(), "")

	r := domain.NewRecord(1700000000000, sampleSheets())
	require.NoError(t, s.Append(ctx, r))

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, r.Type, list[0].Type)
	assert.InDelta(t, r.Total, list[0].Total, 1e-12)
	assert.Equal(t, r.Calculation, list[0].Calculation)
}

func TestHistoryService_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryService(memory.NewKVStore(), "")

	calcs := []domain.Calculation{sampleSheets(), sampleBars(), sampleUnits(), samplePaint()}
	for i, c := range calcs {
		require.NoError(t, s.Append(ctx, domain.NewRecord(int64(100+i), c)))
	}

	list := s.List(ctx)
	require.Len(t, list, len(calcs))
	for i, r := range list {
		assert.Equal(t, int64(100+len(calcs)-1-i), r.ID)
	}
	assert.Equal(t, domain.PaintByArea, list[0].Type)
	assert.Equal(t, domain.SheetsByWeight, list[3].Type)
}

func TestHistoryService_Clear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	s := NewHistoryService(store, "")

	require.NoError(t, s.Append(ctx, domain.NewRecord(1, sampleBars())))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.List(ctx))
	_, ok, err := store.Get(ctx, s.Key())
	require.NoError(t, err)
	assert.False(t, ok, "clear removes the key")
}

func TestHistoryService_ListAbsentKey(t *testing.T) {
	s := NewHistoryService(memory.NewKVStore(), "")
	list := s.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestHistoryService_ListReadErrorIsEmpty(t *testing.T) {
	store := newRecordingStore()
	store.getErr = errDisk
	s := NewHistoryService(store, "")

	assert.Empty(t, s.List(context.Background()))
}

func TestHistoryService_ListCorruptIsEmpty(t *testing.T) {
	store := newRecordingStore()
	store.values[domain.DefaultHistoryKey] = "{not json"
	s := NewHistoryService(store, "")

	assert.Empty(t, s.List(context.Background()))
}

func TestHistoryService_ListSkipsMalformedEntries(t *testing.T) {
	store := newRecordingStore()
	store.values[domain.DefaultHistoryKey] = `[{"id":2,"type":"ChapasKg","total":1},42,{"id":1,"tipo":"Outro","total":2}]`
	s := NewHistoryService(store, "")

	list := s.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.False(t, list[1].Known())
	assert.Equal(t, "Cálculo", list[1].Title())
}

func TestHistoryService_AppendPreservesUnknownRecords(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	legacy := `{"id":1,"tipo":"VidroM2","total":9,"vidroInfo":{"espessura":"8"}}`
	store.values[domain.DefaultHistoryKey] = "[" + legacy + "]"
	s := NewHistoryService(store, "")

	require.NoError(t, s.Append(ctx, domain.NewRecord(2, samplePaint())))

	assert.Contains(t, store.values[domain.DefaultHistoryKey], legacy)
	list := s.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, domain.CalculatorType("VidroM2"), list[1].Type)
}

func TestHistoryService_AppendReadError(t *testing.T) {
	store := newRecordingStore()
	store.getErr = errDisk
	s := NewHistoryService(store, "")

	err := s.Append(context.Background(), domain.NewRecord(1, sampleBars()))

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, errDisk)
	assert.Zero(t, store.sets)
}

func TestHistoryService_AppendOverCorruptLogFails(t *testing.T) {
	store := newRecordingStore()
	store.values[domain.DefaultHistoryKey] = "{not json"
	s := NewHistoryService(store, "")

	err := s.Append(context.Background(), domain.NewRecord(1, sampleBars()))

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, "{not json", store.values[domain.DefaultHistoryKey])
}

func TestHistoryService_AppendWriteError(t *testing.T) {
	store := newRecordingStore()
	store.setErr = errDisk
	s := NewHistoryService(store, "")

	err := s.Append(context.Background(), domain.NewRecord(1, sampleBars()))

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, errDisk)
}

func TestHistoryService_ClearError(t *testing.T) {
	store := newRecordingStore()
	store.removeErr = errDisk
	s := NewHistoryService(store, "")

	assert.ErrorIs(t, s.Clear(context.Background()), domain.ErrStorage)
}

func TestHistoryService_Get(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryService(memory.NewKVStore(), "custom-key")
	require.NoError(t, s.Append(ctx, domain.NewRecord(10, sampleBars())))
	require.NoError(t, s.Append(ctx, domain.NewRecord(11, sampleUnits())))

	r, err := s.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.BarsByWeight, r.Type)

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Watch(t *testing.T) {
	ctx := context.Background()

	_, err := NewHistoryService(memory.NewKVStore(), "").Watch(ctx)
	assert.ErrorIs(t, err, domain.ErrWatchUnsupported)

	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	ws := &watchingStore{recordingStore: newRecordingStore(), ch: ch}

	got, err := NewHistoryService(ws, "").Watch(ctx)
	require.NoError(t, err)
	_, ok := <-got
	assert.True(t, ok)
}
