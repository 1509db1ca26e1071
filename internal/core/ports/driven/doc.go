// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KeyValueStore: Persistence for the history log (SQLite, file, PostgreSQL, memory)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil or absent - the application degrades gracefully:
//
//   - WatchableStore: Change notification. Only the file store provides it.
//   - Exporter: Document rendering. Formats without an exporter are rejected.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
