package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// RecordCodec maps records to and from the persisted history log.
//
// The log is a JSON array, newest first. Each element carries the record id,
// the type tag, the total, and the master parameters and line items under
// field names that differ per type:
//
//	ChapasKg  chapaInfo{comprimento,largura,peso}  pecas[{id,qtd,comprimentoPeca,larguraPeca}]
//	TubosKg   barraInfo{comprimento,peso}          pecas[{id,qtdMontagem,qtdPeca,compPeca}]
//	ChapasUn  materialInfo{comprimento,largura}    pecas[{id,comprimentoPeca,larguraPeca,quantidade}]
//	TintaL    tintaInfo{tintaPorM2}                areas[{id,comprimento,largura,numFaces}]
//
// Records are written with a "type" tag. Older logs used "tipo", which is
// still read.
type RecordCodec struct{}

// NewRecordCodec creates a codec.
func NewRecordCodec() RecordCodec {
	return RecordCodec{}
}

type recordJSON struct {
	ID    jsonInt64             `json:"id"`
	Type  domain.CalculatorType `json:"type"`
	Total float64               `json:"total"`
	Chapa *sheetMassJSON        `json:"chapaInfo,omitempty"`
	Mat   *sheetAreaJSON        `json:"materialInfo,omitempty"`
	Barra *barMassJSON          `json:"barraInfo,omitempty"`
	Tinta *paintCoverageJSON    `json:"tintaInfo,omitempty"`
	Pecas json.RawMessage       `json:"pecas,omitempty"`
	Areas []paintAreaJSON       `json:"areas,omitempty"`
}

// decodeJSON mirrors recordJSON but also reads the legacy tag and a
// total written as a string.
type decodeJSON struct {
	ID    jsonInt64             `json:"id"`
	Type  domain.CalculatorType `json:"type"`
	Tipo  domain.CalculatorType `json:"tipo"`
	Total domain.NumericString  `json:"total"`
	Chapa *sheetMassJSON        `json:"chapaInfo"`
	Mat   *sheetAreaJSON        `json:"materialInfo"`
	Barra *barMassJSON          `json:"barraInfo"`
	Tinta *paintCoverageJSON    `json:"tintaInfo"`
	Pecas json.RawMessage       `json:"pecas"`
	Areas []paintAreaJSON       `json:"areas"`
}

type sheetMassJSON struct {
	Comprimento domain.NumericString `json:"comprimento"`
	Largura     domain.NumericString `json:"largura"`
	Peso        domain.NumericString `json:"peso"`
}

type sheetWeightPieceJSON struct {
	ID              jsonInt64            `json:"id"`
	Qtd             domain.NumericString `json:"qtd"`
	ComprimentoPeca domain.NumericString `json:"comprimentoPeca"`
	LarguraPeca     domain.NumericString `json:"larguraPeca"`
}

type barMassJSON struct {
	Comprimento domain.NumericString `json:"comprimento"`
	Peso        domain.NumericString `json:"peso"`
}

type barPieceJSON struct {
	ID          jsonInt64            `json:"id"`
	QtdMontagem domain.NumericString `json:"qtdMontagem"`
	QtdPeca     domain.NumericString `json:"qtdPeca"`
	CompPeca    domain.NumericString `json:"compPeca"`
}

type sheetAreaJSON struct {
	Comprimento domain.NumericString `json:"comprimento"`
	Largura     domain.NumericString `json:"largura"`
}

type sheetUnitPieceJSON struct {
	ID              jsonInt64            `json:"id"`
	ComprimentoPeca domain.NumericString `json:"comprimentoPeca"`
	LarguraPeca     domain.NumericString `json:"larguraPeca"`
	Quantidade      domain.NumericString `json:"quantidade"`
}

type paintCoverageJSON struct {
	TintaPorM2 domain.NumericString `json:"tintaPorM2"`
}

type paintAreaJSON struct {
	ID          jsonInt64            `json:"id"`
	Comprimento domain.NumericString `json:"comprimento"`
	Largura     domain.NumericString `json:"largura"`
	NumFaces    domain.NumericString `json:"numFaces"`
}

// jsonInt64 is an id that may have been written as a number or a string.
type jsonInt64 int64

func (n *jsonInt64) UnmarshalJSON(data []byte) error {
	var s domain.NumericString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = jsonInt64(s.Float())
	return nil
}

// EncodeRecord serialises one record. A record of unknown type is written
// back from its stored form; without one it cannot be encoded.
func (RecordCodec) EncodeRecord(r domain.Record) (json.RawMessage, error) {
	if !r.Known() {
		if len(r.Raw) > 0 {
			return append(json.RawMessage(nil), r.Raw...), nil
		}
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, r.Type)
	}

	out := recordJSON{
		ID:    jsonInt64(r.ID),
		Type:  r.Type,
		Total: r.Total,
	}

	var pieces any
	switch c := r.Calculation.(type) {
	case *domain.SheetsByWeightCalc:
		out.Chapa = &sheetMassJSON{Comprimento: c.Master.Length, Largura: c.Master.Width, Peso: c.Master.Weight}
		list := make([]sheetWeightPieceJSON, 0, c.Len())
		for _, p := range c.Items.Items() {
			list = append(list, sheetWeightPieceJSON{
				ID: jsonInt64(p.ID), Qtd: p.Quantity, ComprimentoPeca: p.PieceLength, LarguraPeca: p.PieceWidth,
			})
		}
		pieces = list
	case *domain.BarsByWeightCalc:
		out.Barra = &barMassJSON{Comprimento: c.Master.Length, Peso: c.Master.Weight}
		list := make([]barPieceJSON, 0, c.Len())
		for _, p := range c.Items.Items() {
			list = append(list, barPieceJSON{
				ID: jsonInt64(p.ID), QtdMontagem: p.AssemblyQty, QtdPeca: p.PieceQty, CompPeca: p.PieceLength,
			})
		}
		pieces = list
	case *domain.SheetsByUnitCalc:
		out.Mat = &sheetAreaJSON{Comprimento: c.Master.Length, Largura: c.Master.Width}
		list := make([]sheetUnitPieceJSON, 0, c.Len())
		for _, p := range c.Items.Items() {
			list = append(list, sheetUnitPieceJSON{
				ID: jsonInt64(p.ID), ComprimentoPeca: p.PieceLength, LarguraPeca: p.PieceWidth, Quantidade: p.Quantity,
			})
		}
		pieces = list
	case *domain.PaintByAreaCalc:
		out.Tinta = &paintCoverageJSON{TintaPorM2: c.Master.PerSquareMeter}
		out.Areas = make([]paintAreaJSON, 0, c.Len())
		for _, a := range c.Items.Items() {
			out.Areas = append(out.Areas, paintAreaJSON{
				ID: jsonInt64(a.ID), Comprimento: a.Length, Largura: a.Width, NumFaces: a.FaceCount,
			})
		}
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, r.Calculation)
	}

	if pieces != nil {
		raw, err := json.Marshal(pieces)
		if err != nil {
			return nil, fmt.Errorf("encode pieces: %w", err)
		}
		out.Pecas = raw
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses one record. A record whose type is not known decodes
// with a nil Calculation and its bytes in Raw instead of failing.
func (RecordCodec) DecodeRecord(data []byte) (domain.Record, error) {
	var in decodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Record{}, fmt.Errorf("%w: decode record: %w", domain.ErrInvalidInput, err)
	}

	t := in.Type
	if t == "" {
		t = in.Tipo
	}
	r := domain.Record{
		ID:    int64(in.ID),
		Type:  t,
		Total: in.Total.Float(),
	}

	var err error
	switch t {
	case domain.SheetsByWeight:
		r.Calculation, err = decodeSheetsByWeight(in)
	case domain.BarsByWeight:
		r.Calculation, err = decodeBarsByWeight(in)
	case domain.SheetsByUnit:
		r.Calculation, err = decodeSheetsByUnit(in)
	case domain.PaintByArea:
		r.Calculation = decodePaintByArea(in)
	default:
		r.Raw = append([]byte(nil), data...)
	}
	if err != nil {
		return domain.Record{}, err
	}
	return r, nil
}

// DecodeLog splits the stored log into its elements without decoding them,
// so that records this version does not understand survive a rewrite.
// Empty or whitespace-only input is an empty log.
func (RecordCodec) DecodeLog(data string) ([]json.RawMessage, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("%w: decode history: %w", domain.ErrInvalidInput, err)
	}
	// A stored "null" decodes to a nil slice, which is the empty log.
	return entries, nil
}

// EncodeLog joins elements into the stored form.
func (RecordCodec) EncodeLog(entries []json.RawMessage) (string, error) {
	if entries == nil {
		entries = []json.RawMessage{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func decodeSheetsByWeight(in decodeJSON) (domain.Calculation, error) {
	var master domain.SheetMass
	if in.Chapa != nil {
		master = domain.SheetMass{Length: in.Chapa.Comprimento, Width: in.Chapa.Largura, Weight: in.Chapa.Peso}
	}
	var raw []sheetWeightPieceJSON
	if err := decodePieces(in.Pecas, &raw); err != nil {
		return nil, err
	}
	c := domain.NewSheetsByWeight(master)
	ids := newIDAssigner()
	for _, p := range raw {
		c.Items.Add(domain.SheetWeightPiece{
			ID: ids.assign(p.ID), Quantity: p.Qtd, PieceLength: p.ComprimentoPeca, PieceWidth: p.LarguraPeca,
		})
	}
	return c, nil
}

func decodeBarsByWeight(in decodeJSON) (domain.Calculation, error) {
	var master domain.BarMass
	if in.Barra != nil {
		master = domain.BarMass{Length: in.Barra.Comprimento, Weight: in.Barra.Peso}
	}
	var raw []barPieceJSON
	if err := decodePieces(in.Pecas, &raw); err != nil {
		return nil, err
	}
	c := domain.NewBarsByWeight(master)
	ids := newIDAssigner()
	for _, p := range raw {
		c.Items.Add(domain.BarPiece{
			ID: ids.assign(p.ID), AssemblyQty: p.QtdMontagem, PieceQty: p.QtdPeca, PieceLength: p.CompPeca,
		})
	}
	return c, nil
}

func decodeSheetsByUnit(in decodeJSON) (domain.Calculation, error) {
	var master domain.SheetArea
	if in.Mat != nil {
		master = domain.SheetArea{Length: in.Mat.Comprimento, Width: in.Mat.Largura}
	}
	var raw []sheetUnitPieceJSON
	if err := decodePieces(in.Pecas, &raw); err != nil {
		return nil, err
	}
	c := domain.NewSheetsByUnit(master)
	ids := newIDAssigner()
	for _, p := range raw {
		c.Items.Add(domain.SheetUnitPiece{
			ID: ids.assign(p.ID), PieceLength: p.ComprimentoPeca, PieceWidth: p.LarguraPeca, Quantity: p.Quantidade,
		})
	}
	return c, nil
}

func decodePaintByArea(in decodeJSON) domain.Calculation {
	var master domain.PaintCoverage
	if in.Tinta != nil {
		master = domain.PaintCoverage{PerSquareMeter: in.Tinta.TintaPorM2}
	}
	c := domain.NewPaintByArea(master)
	ids := newIDAssigner()
	for _, a := range in.Areas {
		c.Items.Add(domain.PaintArea{
			ID: ids.assign(a.ID), Length: a.Comprimento, Width: a.Largura, FaceCount: a.NumFaces,
		})
	}
	return c
}

func decodePieces(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode pieces: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// idAssigner keeps decoded item ids unique. Missing or repeated ids are
// replaced so no line is dropped.
type idAssigner struct {
	seen map[domain.ItemID]bool
	max  domain.ItemID
}

func newIDAssigner() *idAssigner {
	return &idAssigner{seen: make(map[domain.ItemID]bool)}
}

func (a *idAssigner) assign(raw jsonInt64) domain.ItemID {
	id := domain.ItemID(raw)
	if id == 0 || a.seen[id] {
		id = a.max + 1
	}
	a.seen[id] = true
	if id > a.max {
		a.max = id
	}
	return id
}
