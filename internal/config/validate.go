package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.Bind == "" {
		return errors.New("paths.bind must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.Bind); err != nil {
		return fmt.Errorf("paths.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.AudioFormat == "" {
		return errors.New("downloads.audio_format must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"downloads.max_age_seconds":          c.Downloads.MaxAgeSeconds,
		"downloads.max_concurrent":           c.Downloads.MaxConcurrent,
		"downloads.cleanup_interval_seconds": c.Downloads.CleanupInterval,
		"downloads.timeout_seconds":          c.Downloads.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	return ensurePositiveMap(map[string]int{
		"server.read_timeout_seconds":     c.Server.ReadTimeout,
		"server.write_timeout_seconds":    c.Server.WriteTimeout,
		"server.idle_timeout_seconds":     c.Server.IdleTimeout,
		"server.shutdown_timeout_seconds": c.Server.ShutdownTimeout,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
