// Package api defines the JSON payload types shared by the HTTP server and
// the CLI client, plus converters from storage records.
package api
