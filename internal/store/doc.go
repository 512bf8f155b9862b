// Package store persists download history in SQLite.
//
// Every download request gets a row keyed by a random token that doubles as
// the on-disk filename stem. Rows move through a small lifecycle:
// pending -> downloading -> completed -> fetched or expired, with failed as
// the terminal error state. The janitor and the file handler update rows as
// the corresponding files disappear from disk.
package store
