// Package domain defines the core business entities for Chapas.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - NumericString: A user-entered number with either decimal separator
//   - Calculation: One of the four calculator variants (master + line items)
//   - ItemList: Ordered line items addressed by id
//   - Record: An immutable snapshot of a saved calculation
//
// Every formula in this package is a pure function of its inputs. Results
// are always finite: a degenerate master (zero length, width or area)
// resolves to zero rather than dividing by zero.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
