// Package file provides the TOML-backed configuration store.
// Settings live in config.toml within the chapas config directory.
package file
