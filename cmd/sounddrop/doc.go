// Command sounddrop is the CLI for the sounddrop audio download service. It
// runs the daemon and talks to a running instance over its HTTP API.
package main
