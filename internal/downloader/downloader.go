package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"sounddrop/internal/config"
	"sounddrop/internal/logging"
	"sounddrop/internal/store"
)

var (
	// ErrUnsupportedURL indicates the request URL was not http or https.
	ErrUnsupportedURL = errors.New("unsupported url scheme")
	// ErrDownloadFailed indicates yt-dlp could not download or extract the track.
	ErrDownloadFailed = errors.New("download failed")
	// ErrNoOutput indicates yt-dlp reported success but produced no audio file.
	ErrNoOutput = errors.New("no output file produced")
)

// Service runs downloads through yt-dlp with bounded concurrency and records
// their lifecycle in the history store.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	slots  chan struct{}
}

// NewService constructs a download service with cfg.Downloads.MaxConcurrent
// worker slots.
func NewService(cfg *config.Config, st *store.Store, logger *slog.Logger) *Service {
	slots := cfg.Downloads.MaxConcurrent
	if slots < 1 {
		slots = 1
	}
	return &Service{
		cfg:    cfg,
		store:  st,
		logger: logging.WithComponent(logger, "downloader"),
		slots:  make(chan struct{}, slots),
	}
}

// Fetch downloads the audio at rawURL, extracts it to the configured format,
// and returns the completed record. On failure the record is marked failed
// and the error returned.
func (s *Service) Fetch(ctx context.Context, rawURL string) (*store.Record, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token := uuid.NewString()
	record, err := s.store.New(ctx, token, rawURL)
	if err != nil {
		return nil, fmt.Errorf("create download record: %w", err)
	}

	record.Status = store.StatusDownloading
	if err := s.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("mark downloading: %w", err)
	}

	s.logger.Info("download started",
		logging.String(logging.FieldToken, token),
		logging.String(logging.FieldURL, rawURL))

	if err := s.runYtdlp(ctx, record); err != nil {
		record.SetFailed(err.Error())
		if updateErr := s.store.Update(context.WithoutCancel(ctx), record); updateErr != nil {
			s.logger.Error("persist failure state", logging.Error(updateErr))
		}
		s.logger.Error("download failed",
			logging.String(logging.FieldToken, token),
			logging.Error(err))
		return record, err
	}

	record.Status = store.StatusCompleted
	if err := s.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	s.logger.Info("download completed",
		logging.String(logging.FieldToken, token),
		logging.String("file", record.FilePath),
		logging.Int64("size_bytes", record.FileSize))
	return record, nil
}

func (s *Service) runYtdlp(ctx context.Context, record *store.Record) error {
	runCtx := ctx
	if timeout := s.cfg.DownloadTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	template := filepath.Join(s.cfg.Paths.DownloadDir, record.Token+".%(ext)s")
	dl := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(s.cfg.Downloads.AudioFormat).
		AudioQuality(s.cfg.Downloads.AudioQuality).
		NoPlaylist().
		Output(template)

	dl.ProgressFunc(time.Second, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes > 0 {
			percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
			s.logger.Debug("download progress",
				logging.String(logging.FieldToken, record.Token),
				logging.String("percent", fmt.Sprintf("%.1f%%", percent)))
		}
	})

	result, err := dl.Run(runCtx, record.URL)
	if err != nil {
		return fmt.Errorf("%w: yt-dlp: %w", ErrDownloadFailed, err)
	}

	record.Title = extractTitle(result)
	if record.Title == "" {
		record.Title = fallbackTitle
	}
	record.SafeFilename = SafeFilename(record.Title, s.cfg.Downloads.AudioFormat)

	path, size, err := s.locateOutput(record.Token)
	if err != nil {
		return err
	}
	record.FilePath = path
	record.FileSize = size
	return nil
}

// locateOutput finds the post-processed file for a token. The extension is
// globbed rather than assumed because yt-dlp may keep the source container
// when extraction is skipped.
func (s *Service) locateOutput(token string) (string, int64, error) {
	preferred := filepath.Join(s.cfg.Paths.DownloadDir, token+"."+s.cfg.Downloads.AudioFormat)
	if info, err := os.Stat(preferred); err == nil && !info.IsDir() {
		return preferred, info.Size(), nil
	}

	matches, err := filepath.Glob(filepath.Join(s.cfg.Paths.DownloadDir, token+".*"))
	if err != nil {
		return "", 0, fmt.Errorf("glob output: %w", err)
	}
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		return match, info.Size(), nil
	}
	return "", 0, ErrNoOutput
}

func extractTitle(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil {
		return ""
	}
	for _, entry := range info {
		if entry != nil && entry.Title != nil && *entry.Title != "" {
			return *entry.Title
		}
	}
	return ""
}

func validateURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return fmt.Errorf("%w: empty url", ErrUnsupportedURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	return nil
}
