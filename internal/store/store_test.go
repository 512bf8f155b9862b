package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sounddrop/internal/store"
	"sounddrop/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record, err := st.New(ctx, "token-1", "https://soundcloud.com/artist/track")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected record ID to be assigned")
	}
	if record.Status != store.StatusPending {
		t.Fatalf("expected pending status, got %q", record.Status)
	}

	fetched, err := st.GetByToken(ctx, "token-1")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if fetched == nil || fetched.ID != record.ID {
		t.Fatalf("expected to find inserted record, got %#v", fetched)
	}
}

func TestNewRequiresTokenAndURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := st.New(ctx, "", "https://example.com"); err == nil {
		t.Fatal("expected error when token missing")
	}
	if _, err := st.New(ctx, "token", ""); err == nil {
		t.Fatal("expected error when url missing")
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record, err := st.New(ctx, "token-upd", "https://example.com/track")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	record.Status = store.StatusCompleted
	record.Title = "Some Track"
	record.SafeFilename = "Some Track.mp3"
	record.FilePath = "/tmp/token-upd.mp3"
	record.FileSize = 1234
	if err := st.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := st.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != store.StatusCompleted || fetched.Title != "Some Track" || fetched.FileSize != 1234 {
		t.Fatalf("unexpected record after update: %#v", fetched)
	}
}

func TestListFiltersAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		record, err := st.New(ctx, fmt.Sprintf("token-%d", i), "https://example.com")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if i%2 == 0 {
			record.Status = store.StatusFailed
			if err := st.Update(ctx, record); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
		}
	}

	failed, err := st.List(ctx, 0, store.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 3 {
		t.Fatalf("expected 3 failed records, got %d", len(failed))
	}

	limited, err := st.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(limited))
	}
}

func TestMarkFetchedOnlyTouchesCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record, err := st.New(ctx, "token-f", "https://example.com")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := st.MarkFetched(ctx, "token-f"); err != nil {
		t.Fatalf("MarkFetched failed: %v", err)
	}
	fetched, _ := st.GetByToken(ctx, "token-f")
	if fetched.Status != store.StatusPending {
		t.Fatalf("pending record must not be marked fetched, got %q", fetched.Status)
	}

	record.Status = store.StatusCompleted
	if err := st.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := st.MarkFetched(ctx, "token-f"); err != nil {
		t.Fatalf("MarkFetched failed: %v", err)
	}
	fetched, _ = st.GetByToken(ctx, "token-f")
	if fetched.Status != store.StatusFetched {
		t.Fatalf("expected fetched status, got %q", fetched.Status)
	}
}

func TestExpireOlderThan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record, err := st.New(ctx, "token-old", "https://example.com")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	record.Status = store.StatusCompleted
	if err := st.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := st.ExpireOlderThan(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("ExpireOlderThan failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired record, got %d", count)
	}

	fetched, _ := st.GetByToken(ctx, "token-old")
	if fetched.Status != store.StatusExpired {
		t.Fatalf("expected expired status, got %q", fetched.Status)
	}
}

func TestResetStuck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record, err := st.New(ctx, "token-stuck", "https://example.com")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	record.Status = store.StatusDownloading
	if err := st.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := st.ResetStuck(ctx)
	if err != nil {
		t.Fatalf("ResetStuck failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reset record, got %d", count)
	}

	fetched, _ := st.GetByToken(ctx, "token-stuck")
	if fetched.Status != store.StatusFailed || fetched.ErrorMessage == "" {
		t.Fatalf("unexpected record after reset: %#v", fetched)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	statuses := []store.Status{store.StatusCompleted, store.StatusCompleted, store.StatusFailed}
	for i, status := range statuses {
		record, err := st.New(ctx, fmt.Sprintf("token-s%d", i), "https://example.com")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		record.Status = status
		if err := st.Update(ctx, record); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	health, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Completed != 2 || health.Failed != 1 {
		t.Fatalf("unexpected health summary: %+v", health)
	}
}
