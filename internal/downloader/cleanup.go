package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sounddrop/internal/config"
	"sounddrop/internal/logging"
	"sounddrop/internal/store"
)

// Janitor removes aged downloads from disk and expires their history records.
type Janitor struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewJanitor builds a janitor over the download directory and history store.
func NewJanitor(cfg *config.Config, st *store.Store, logger *slog.Logger) *Janitor {
	return &Janitor{
		cfg:    cfg,
		store:  st,
		logger: logging.WithComponent(logger, "janitor"),
	}
}

// PruneOlderThan deletes files older than the configured retention age and
// expires the matching completed records. Returns the number of files removed.
func (j *Janitor) PruneOlderThan(ctx context.Context) (int, error) {
	maxAge := j.cfg.MaxAge()
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)

	removed, err := j.removeFiles(func(info os.FileInfo) bool {
		return info.ModTime().Before(cutoff)
	})
	if err != nil {
		return removed, err
	}

	expired, err := j.store.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		return removed, err
	}
	if removed > 0 || expired > 0 {
		j.logger.Info("pruned aged downloads",
			logging.Int("files_removed", removed),
			logging.Int64("records_expired", expired))
	}
	return removed, nil
}

// PurgeAll deletes every file in the download directory and expires all
// completed records regardless of age.
func (j *Janitor) PurgeAll(ctx context.Context) (int, error) {
	removed, err := j.removeFiles(func(os.FileInfo) bool { return true })
	if err != nil {
		return removed, err
	}

	expired, err := j.store.ExpireActive(ctx)
	if err != nil {
		return removed, err
	}
	j.logger.Info("purged download directory",
		logging.Int("files_removed", removed),
		logging.Int64("records_expired", expired))
	return removed, nil
}

// Run sweeps on the configured interval until ctx is canceled.
func (j *Janitor) Run(ctx context.Context) {
	interval := j.cfg.CleanupEvery()
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.PruneOlderThan(ctx); err != nil {
				j.logger.Error("cleanup sweep failed", logging.Error(err))
			}
		}
	}
}

func (j *Janitor) removeFiles(shouldRemove func(os.FileInfo) bool) (int, error) {
	entries, err := os.ReadDir(j.cfg.Paths.DownloadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read download dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !shouldRemove(info) {
			continue
		}
		path := filepath.Join(j.cfg.Paths.DownloadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Warn("remove download file",
				logging.String("file", path),
				logging.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
