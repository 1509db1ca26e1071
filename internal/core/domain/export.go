package domain

// ExportFormat names a document format history can be exported to.
type ExportFormat string

// Available export formats.
const (
	// ExportFormatJSON is the persisted log encoding.
	ExportFormatJSON ExportFormat = "json"

	// ExportFormatXLSX is an Excel workbook, one sheet per record type.
	ExportFormatXLSX ExportFormat = "xlsx"

	// ExportFormatPDF is a printable report.
	ExportFormatPDF ExportFormat = "pdf"
)

// IsValid returns true if the format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatJSON, ExportFormatXLSX, ExportFormatPDF:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f ExportFormat) String() string {
	return string(f)
}

// Extension returns the file extension including the dot.
func (f ExportFormat) Extension() string {
	return "." + string(f)
}

// AllExportFormats returns all available export formats.
func AllExportFormats() []ExportFormat {
	return []ExportFormat{ExportFormatJSON, ExportFormatXLSX, ExportFormatPDF}
}
