// Package server implements the HTTP surface of sounddrop: the download
// endpoint, one-shot file delivery, cleanup, and the status and history API.
package server
