package config

import (
	"strings"
)

// normalize expands path fields and trims string values so the rest of the
// codebase never has to re-clean configuration input.
func (c *Config) normalize() error {
	downloadDir, err := expandPath(strings.TrimSpace(c.Paths.DownloadDir))
	if err != nil {
		return err
	}
	c.Paths.DownloadDir = downloadDir

	logDir, err := expandPath(strings.TrimSpace(c.Paths.LogDir))
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	c.Paths.Bind = strings.TrimSpace(c.Paths.Bind)
	c.Downloads.AudioFormat = strings.ToLower(strings.TrimSpace(c.Downloads.AudioFormat))
	c.Downloads.AudioQuality = strings.TrimSpace(c.Downloads.AudioQuality)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	origins := make([]string, 0, len(c.Server.AllowedOrigins))
	for _, origin := range c.Server.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		origins = append(origins, trimmed)
	}
	if len(origins) == 0 {
		origins = []string{defaultAllowedOriginsAll}
	}
	c.Server.AllowedOrigins = origins

	return nil
}
