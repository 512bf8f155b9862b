package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"sounddrop/internal/api"
	"sounddrop/internal/config"
	"sounddrop/internal/deps"
	"sounddrop/internal/downloader"
	"sounddrop/internal/logging"
	"sounddrop/internal/store"
)

// Daemon coordinates the background services and enforces single-instance
// execution via a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	downloads *downloader.Service
	janitor   *downloader.Janitor

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, downloads *downloader.Service, janitor *downloader.Janitor, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || downloads == nil || janitor == nil {
		return nil, errors.New("daemon requires config, store, download service, and janitor")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "sounddrop.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logging.WithComponent(logger, "daemon"),
		store:     st,
		downloads: downloads,
		janitor:   janitor,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, fails over records abandoned by a previous
// process, sweeps stale files, and launches the janitor loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sounddrop instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if reset, err := d.store.ResetStuck(d.ctx); err != nil {
		d.releaseStart()
		return fmt.Errorf("reset stuck downloads: %w", err)
	} else if reset > 0 {
		d.logger.Warn("failed downloads abandoned by previous run", logging.Int64("count", reset))
	}

	if _, err := d.janitor.PruneOlderThan(d.ctx); err != nil {
		d.logger.Warn("startup prune failed", logging.Error(err))
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.janitor.Run(d.ctx)
	}()

	d.startedAt = time.Now().UTC()
	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) releaseStart() {
	_ = d.lock.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.ctx = nil
}

// Stop halts background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases all resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Downloads exposes the download service for the HTTP server.
func (d *Daemon) Downloads() *downloader.Service {
	return d.downloads
}

// Janitor exposes the retention janitor for the HTTP server.
func (d *Daemon) Janitor() *downloader.Janitor {
	return d.janitor
}

// LockFilePath returns the single-instance lock location.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}

// Status reports the current daemon runtime state.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	status := api.DaemonStatus{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		Bind:          d.cfg.Paths.Bind,
		DownloadDir:   d.cfg.Paths.DownloadDir,
		HistoryDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
	}
	if !d.startedAt.IsZero() {
		status.StartedAt = d.startedAt.Format(time.RFC3339)
		status.UptimeSeconds = int64(time.Since(d.startedAt).Seconds())
	}

	checks := deps.CheckSystemDeps(d.cfg)
	status.Dependencies = api.DependencyStatusesFromChecks(checks)
	status.MissingDeps = deps.MissingRequired(checks)

	if free, err := deps.FreeSpace(d.cfg.Paths.DownloadDir); err == nil {
		status.FreeDiskBytes = free
	} else {
		d.logger.Warn("free space check failed", logging.Error(err))
	}

	if health, err := d.store.Health(ctx); err == nil {
		status.History = api.HistoryHealthFromSummary(health)
	} else {
		d.logger.Warn("history health check failed", logging.Error(err))
	}
	return status
}
