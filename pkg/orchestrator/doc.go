// Package orchestrator wires the catalog lookup, transformer and renderer
// steps behind a single entry point used by the CLI and the HTTP server.
package orchestrator
