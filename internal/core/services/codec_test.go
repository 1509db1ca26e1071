package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

func TestRecordCodec_EncodeFieldNames(t *testing.T) {
	codec := NewRecordCodec()

	tests := []struct {
		name       string
		calc       domain.Calculation
		masterKey  string
		itemsKey   string
		itemFields []string
	}{
		{"sheets by weight", sampleSheets(), "chapaInfo", "pecas", []string{"id", "qtd", "comprimentoPeca", "larguraPeca"}},
		{"bars by weight", sampleBars(), "barraInfo", "pecas", []string{"id", "qtdMontagem", "qtdPeca", "compPeca"}},
		{"sheets by unit", sampleUnits(), "materialInfo", "pecas", []string{"id", "comprimentoPeca", "larguraPeca", "quantidade"}},
		{"paint by area", samplePaint(), "tintaInfo", "areas", []string{"id", "comprimento", "largura", "numFaces"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.EncodeRecord(domain.NewRecord(1700000000000, tt.calc))
			require.NoError(t, err)

			var m map[string]any
			require.NoError(t, json.Unmarshal(data, &m))

			assert.EqualValues(t, 1700000000000, m["id"])
			assert.Equal(t, tt.calc.Type().String(), m["type"])
			assert.InDelta(t, tt.calc.Total(), m["total"], 1e-9)
			assert.Contains(t, m, tt.masterKey)
			require.Contains(t, m, tt.itemsKey)

			items := m[tt.itemsKey].([]any)
			require.Len(t, items, 1)
			item := items[0].(map[string]any)
			for _, f := range tt.itemFields {
				assert.Contains(t, item, f)
			}
			assert.Len(t, item, len(tt.itemFields))
		})
	}
}

func TestRecordCodec_MasterValuesAreStrings(t *testing.T) {
	data, err := NewRecordCodec().EncodeRecord(domain.NewRecord(1, sampleSheets()))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"chapaInfo":{"comprimento":"2000","largura":"1000","peso":"50"}`)
	assert.Contains(t, string(data), `{"id":11,"qtd":"2","comprimentoPeca":"500","larguraPeca":"250"}`)
}

func TestRecordCodec_RoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	for _, c := range []domain.Calculation{sampleSheets(), sampleBars(), sampleUnits(), samplePaint()} {
		t.Run(c.Type().String(), func(t *testing.T) {
			in := domain.NewRecord(42, c)
			data, err := codec.EncodeRecord(in)
			require.NoError(t, err)

			out, err := codec.DecodeRecord(data)
			require.NoError(t, err)

			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Type, out.Type)
			assert.InDelta(t, in.Total, out.Total, 1e-12)
			assert.Equal(t, c, out.Calculation)
		})
	}
}

func TestRecordCodec_DecodeLegacy(t *testing.T) {
	legacy := `{
		"id": 1699999999999,
		"tipo": "TubosKg",
		"total": 12,
		"barraInfo": {"comprimento": "6000", "peso": "24"},
		"pecas": [{"id": 1699999990000, "qtdMontagem": "2", "qtdPeca": "3", "compPeca": "500"}]
	}`

	r, err := NewRecordCodec().DecodeRecord([]byte(legacy))
	require.NoError(t, err)

	assert.Equal(t, int64(1699999999999), r.ID)
	assert.Equal(t, domain.BarsByWeight, r.Type)
	assert.InDelta(t, 12, r.Total, 1e-12)
	require.True(t, r.Known())

	bars := r.Calculation.(*domain.BarsByWeightCalc)
	assert.Equal(t, domain.NumericString("6000"), bars.Master.Length)
	piece, ok := bars.Items.Get(1699999990000)
	require.True(t, ok)
	assert.Equal(t, domain.NumericString("500"), piece.PieceLength)
	assert.InDelta(t, 12, bars.Total(), 1e-12)
}

func TestRecordCodec_DecodeNumbersAndStringIDs(t *testing.T) {
	data := `{"id":"7","type":"TintaL","total":"0,083",
		"tintaInfo":{"tintaPorM2":0.083},
		"areas":[{"id":"3","comprimento":1000,"largura":500,"numFaces":2}]}`

	r, err := NewRecordCodec().DecodeRecord([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, int64(7), r.ID)
	assert.InDelta(t, 0.083, r.Total, 1e-12)
	paint := r.Calculation.(*domain.PaintByAreaCalc)
	assert.Equal(t, domain.NumericString("0.083"), paint.Master.PerSquareMeter)
	_, ok := paint.Items.Get(3)
	assert.True(t, ok)
	assert.InDelta(t, 0.083, paint.Total(), 1e-12)
}

func TestRecordCodec_DecodeUnknownType(t *testing.T) {
	r, err := NewRecordCodec().DecodeRecord([]byte(`{"id":5,"type":"VidroM2","total":3.5,"vidroInfo":{}}`))
	require.NoError(t, err)

	assert.False(t, r.Known())
	assert.Equal(t, domain.CalculatorType("VidroM2"), r.Type)
	assert.Equal(t, "Cálculo", r.Title())
	assert.InDelta(t, 3.5, r.Total, 1e-12)
	assert.JSONEq(t, `{"id":5,"type":"VidroM2","total":3.5,"vidroInfo":{}}`, string(r.Raw))
}

func TestRecordCodec_EncodeUnknownFromRaw(t *testing.T) {
	codec := NewRecordCodec()
	stored := `{"id":7,"tipo":"VidroM2","total":2,"vidroInfo":{"espessura":"8"}}`

	r, err := codec.DecodeRecord([]byte(stored))
	require.NoError(t, err)

	out, err := codec.EncodeRecord(r)
	require.NoError(t, err)
	assert.JSONEq(t, stored, string(out))
}

func TestRecordCodec_DecodeMissingParts(t *testing.T) {
	r, err := NewRecordCodec().DecodeRecord([]byte(`{"id":5,"type":"ChapasKg","total":1}`))
	require.NoError(t, err)

	require.True(t, r.Known())
	assert.Equal(t, 0, r.Calculation.Len())
	assert.Zero(t, r.Calculation.Total())
}

func TestRecordCodec_DecodeDuplicateItemIDs(t *testing.T) {
	data := `{"id":1,"type":"ChapasUn","total":1,
		"materialInfo":{"comprimento":"2000","largura":"4000"},
		"pecas":[
			{"id":5,"comprimentoPeca":"1","larguraPeca":"1","quantidade":"1"},
			{"id":5,"comprimentoPeca":"2","larguraPeca":"2","quantidade":"1"},
			{"comprimentoPeca":"3","larguraPeca":"3","quantidade":"1"}
		]}`

	r, err := NewRecordCodec().DecodeRecord([]byte(data))
	require.NoError(t, err)

	items := r.Calculation.(*domain.SheetsByUnitCalc).Items.Items()
	require.Len(t, items, 3)
	assert.Equal(t, domain.NumericString("1"), items[0].PieceLength)
	assert.Equal(t, domain.NumericString("2"), items[1].PieceLength)
	assert.Equal(t, domain.NumericString("3"), items[2].PieceLength)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.NotEqual(t, items[1].ID, items[2].ID)
}

func TestRecordCodec_DecodeMalformed(t *testing.T) {
	codec := NewRecordCodec()

	_, err := codec.DecodeRecord([]byte(`"just a string"`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = codec.DecodeRecord([]byte(`{"id":1,"type":"ChapasKg","pecas":{"not":"a list"}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordCodec_EncodeUnknown(t *testing.T) {
	_, err := NewRecordCodec().EncodeRecord(domain.Record{ID: 1, Type: "VidroM2"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRecordCodec_Log(t *testing.T) {
	codec := NewRecordCodec()

	entries, err := codec.DecodeLog("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = codec.DecodeLog("null")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = codec.DecodeLog("{not json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = codec.DecodeLog(`{"id":1}`)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := codec.EncodeLog(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = codec.EncodeLog([]json.RawMessage{json.RawMessage(`{"id":2}`), json.RawMessage(`{"id":1}`)})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2},{"id":1}]`, out)
}
