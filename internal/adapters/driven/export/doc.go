// Package export holds the document exporters for the calculation history.
//
// Each subpackage implements driven.Exporter for one format:
//
//   - xlsx: a workbook with a summary sheet and one sheet per calculator type
//   - pdf: a printable report with one block per record
//
// JSON export needs no adapter; the export service encodes it directly.
package export
