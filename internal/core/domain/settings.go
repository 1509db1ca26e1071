package domain

const unknownDescription = "Unknown"

// DefaultHistoryKey is the storage key the history log lives under.
const DefaultHistoryKey = "@calculos_chapas_history"

// StorageBackend selects the key-value substrate for the history log.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite stores keys in a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendFile stores each key as a JSON file on disk.
	StorageBackendFile StorageBackend = "file"

	// StorageBackendPostgres stores keys in a shared PostgreSQL table.
	StorageBackendPostgres StorageBackend = "postgres"

	// StorageBackendMemory keeps keys in process memory only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendFile, StorageBackendPostgres, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// RequiresDSN returns true if this backend needs a connection string.
func (b StorageBackend) RequiresDSN() bool {
	return b == StorageBackendPostgres
}

// IsLocal returns true if this backend keeps data on this machine.
func (b StorageBackend) IsLocal() bool {
	return b == StorageBackendSQLite || b == StorageBackendFile
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (local database)"
	case StorageBackendFile:
		return "File (JSON on disk, watchable)"
	case StorageBackendPostgres:
		return "PostgreSQL (shared database)"
	case StorageBackendMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageBackendSQLite,
		StorageBackendFile,
		StorageBackendPostgres,
		StorageBackendMemory,
	}
}

// StorageSettings holds history persistence configuration.
type StorageSettings struct {
	// Backend is the key-value substrate.
	Backend StorageBackend

	// Path is the database file or directory for local backends.
	// Empty means the default under the config directory.
	Path string

	// DSN is the connection string (for Postgres).
	DSN string

	// HistoryKey is the key the log is stored under.
	HistoryKey string
}

// IsConfigured returns true if the backend has what it needs to open.
func (s StorageSettings) IsConfigured() bool {
	if !s.Backend.IsValid() {
		return false
	}
	if s.Backend.RequiresDSN() && s.DSN == "" {
		return false
	}
	return true
}

// DefaultsSettings holds the prefilled master values of new worksheets.
type DefaultsSettings struct {
	// BarLength is the master bar length in mm.
	BarLength NumericString

	// SheetUnitLength and SheetUnitWidth size the master sheet for unit counting.
	SheetUnitLength NumericString
	SheetUnitWidth  NumericString

	// PaintCoverage is liters per m².
	PaintCoverage NumericString
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage holds history persistence settings.
	Storage StorageSettings

	// Defaults holds worksheet defaults.
	Defaults DefaultsSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend:    StorageBackendSQLite,
			HistoryKey: DefaultHistoryKey,
		},
		Defaults: DefaultsSettings{
			BarLength:       DefaultBarLength,
			SheetUnitLength: DefaultSheetUnitLength,
			SheetUnitWidth:  DefaultSheetUnitWidth,
			PaintCoverage:   DefaultPaintCoverage,
		},
	}
}

// NewCalculation returns an empty worksheet of type t with master values
// prefilled from d.
func (d DefaultsSettings) NewCalculation(t CalculatorType) (Calculation, error) {
	switch t {
	case SheetsByWeight:
		return NewSheetsByWeight(SheetMass{}), nil
	case BarsByWeight:
		return NewBarsByWeight(BarMass{Length: d.BarLength}), nil
	case SheetsByUnit:
		return NewSheetsByUnit(SheetArea{Length: d.SheetUnitLength, Width: d.SheetUnitWidth}), nil
	case PaintByArea:
		return NewPaintByArea(PaintCoverage{PerSquareMeter: d.PaintCoverage}), nil
	default:
		return nil, ErrUnsupportedType
	}
}
