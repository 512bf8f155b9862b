// Package config loads, validates, and normalizes sounddrop configuration.
//
// Configuration is TOML with a small surface: paths and bind address,
// download behavior, HTTP server tuning, and logging. Defaults are chosen so
// the daemon runs with no config file at all, matching the container
// contract (bind 0.0.0.0:8000, downloads/ under the working directory).
package config
