package api

import (
	"testing"
	"time"

	"sounddrop/internal/deps"
	"sounddrop/internal/store"
)

func TestHistoryItemFromRecord(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := &store.Record{
		ID:           7,
		Token:        "tok-7",
		URL:          "https://soundcloud.com/artist/track",
		Title:        "Track",
		SafeFilename: "Track.mp3",
		FileSize:     4096,
		Status:       store.StatusCompleted,
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Minute),
	}

	item := HistoryItemFromRecord(record)
	if item.ID != 7 || item.Token != "tok-7" {
		t.Fatalf("unexpected identity fields: %+v", item)
	}
	if item.Status != "completed" {
		t.Errorf("unexpected status: %q", item.Status)
	}
	if item.Filename != "Track.mp3" {
		t.Errorf("unexpected filename: %q", item.Filename)
	}
	if item.CreatedAt == "" || item.UpdatedAt == "" {
		t.Error("timestamps should be rendered")
	}
}

func TestHistoryItemFromNilRecord(t *testing.T) {
	item := HistoryItemFromRecord(nil)
	if item != (HistoryItem{}) {
		t.Fatalf("expected zero item, got %+v", item)
	}
}

func TestHistoryItemsFromRecordsSkipsNil(t *testing.T) {
	records := []*store.Record{
		{ID: 1, Token: "a", URL: "https://example.com/a", Status: store.StatusFailed},
		nil,
		{ID: 2, Token: "b", URL: "https://example.com/b", Status: store.StatusFetched},
	}
	items := HistoryItemsFromRecords(records)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Token != "a" || items[1].Token != "b" {
		t.Errorf("unexpected ordering: %+v", items)
	}
}

func TestHistoryHealthFromSummary(t *testing.T) {
	health := HistoryHealthFromSummary(store.HealthSummary{
		Total:     5,
		Completed: 2,
		Failed:    1,
		Fetched:   2,
	})
	if health.Total != 5 || health.Completed != 2 || health.Failed != 1 || health.Fetched != 2 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestDependencyStatusesFromChecks(t *testing.T) {
	converted := DependencyStatusesFromChecks([]deps.Status{
		{Name: "yt-dlp", Command: "/usr/bin/yt-dlp", Available: true},
		{Name: "FFprobe", Optional: true, Detail: "binary not found"},
	})
	if len(converted) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(converted))
	}
	if !converted[0].Available || converted[0].Name != "yt-dlp" {
		t.Errorf("unexpected first status: %+v", converted[0])
	}
	if !converted[1].Optional || converted[1].Detail == "" {
		t.Errorf("unexpected second status: %+v", converted[1])
	}
}
