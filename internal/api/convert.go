package api

import (
	"sounddrop/internal/deps"
	"sounddrop/internal/store"
)

// HistoryItemFromRecord converts a storage record into its API form.
func HistoryItemFromRecord(record *store.Record) HistoryItem {
	if record == nil {
		return HistoryItem{}
	}
	item := HistoryItem{
		ID:           record.ID,
		Token:        record.Token,
		URL:          record.URL,
		Title:        record.Title,
		Filename:     record.SafeFilename,
		FileSize:     record.FileSize,
		Status:       string(record.Status),
		ErrorMessage: record.ErrorMessage,
	}
	if !record.CreatedAt.IsZero() {
		item.CreatedAt = record.CreatedAt.Format(dateTimeFormat)
	}
	if !record.UpdatedAt.IsZero() {
		item.UpdatedAt = record.UpdatedAt.Format(dateTimeFormat)
	}
	return item
}

// HistoryItemsFromRecords converts a slice of records, skipping nil entries.
func HistoryItemsFromRecords(records []*store.Record) []HistoryItem {
	items := make([]HistoryItem, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		items = append(items, HistoryItemFromRecord(record))
	}
	return items
}

// HistoryHealthFromSummary converts the store health summary.
func HistoryHealthFromSummary(summary store.HealthSummary) HistoryHealth {
	return HistoryHealth{
		Total:       summary.Total,
		Pending:     summary.Pending,
		Downloading: summary.Downloading,
		Completed:   summary.Completed,
		Fetched:     summary.Fetched,
		Expired:     summary.Expired,
		Failed:      summary.Failed,
	}
}

// DependencyStatusesFromChecks converts dependency check results.
func DependencyStatusesFromChecks(statuses []deps.Status) []DependencyStatus {
	converted := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		converted = append(converted, DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		})
	}
	return converted
}
