package config

const (
	defaultDownloadDir       = "downloads"
	defaultLogDir            = "~/.local/share/sounddrop/logs"
	defaultBind              = "0.0.0.0:8000"
	defaultAudioFormat       = "mp3"
	defaultAudioQuality      = "192K"
	defaultMaxAgeSeconds     = 600
	defaultMaxConcurrent     = 2
	defaultCleanupInterval   = 60
	defaultDownloadTimeout   = 600
	defaultReadTimeoutSecs   = 15
	defaultWriteTimeoutSecs  = 120
	defaultIdleTimeoutSecs   = 60
	defaultShutdownTimeout   = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 14
	defaultAllowedOriginsAll = "*"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			Bind:        defaultBind,
		},
		Downloads: Downloads{
			AudioFormat:     defaultAudioFormat,
			AudioQuality:    defaultAudioQuality,
			MaxAgeSeconds:   defaultMaxAgeSeconds,
			MaxConcurrent:   defaultMaxConcurrent,
			CleanupInterval: defaultCleanupInterval,
			TimeoutSeconds:  defaultDownloadTimeout,
		},
		Server: Server{
			AllowedOrigins:  []string{defaultAllowedOriginsAll},
			ReadTimeout:     defaultReadTimeoutSecs,
			WriteTimeout:    defaultWriteTimeoutSecs,
			IdleTimeout:     defaultIdleTimeoutSecs,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
