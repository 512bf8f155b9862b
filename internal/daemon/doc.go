// Package daemon wires the download service, janitor, history store, and
// HTTP server into a single-instance background process.
package daemon
