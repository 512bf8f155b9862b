// Package logging builds the slog loggers used across sounddrop.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for ingestion. Attribute helpers keep structured keys
// consistent between the daemon, the HTTP server, and the CLI.
package logging
