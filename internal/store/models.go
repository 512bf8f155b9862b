package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a download record.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFetched     Status = "fetched"
	StatusExpired     Status = "expired"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusDownloading,
	StatusCompleted,
	StatusFetched,
	StatusExpired,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Record represents a download persisted in SQLite.
type Record struct {
	ID           int64
	Token        string
	URL          string
	Title        string
	SafeFilename string
	FilePath     string
	FileSize     int64
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthSummary describes aggregated record counts per lifecycle state.
type HealthSummary struct {
	Total       int
	Pending     int
	Downloading int
	Completed   int
	Fetched     int
	Expired     int
	Failed      int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a record will no longer change state.
func (r Record) IsTerminal() bool {
	switch r.Status {
	case StatusFetched, StatusExpired, StatusFailed:
		return true
	default:
		return false
	}
}

// SetFailed marks the record as failed with the given error message.
func (r *Record) SetFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = message
}
