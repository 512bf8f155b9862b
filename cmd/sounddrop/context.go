package main

import (
	"strings"
	"sync"

	"sounddrop/internal/client"
	"sounddrop/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiClient derives the HTTP client target from the --server flag when set,
// falling back to the configured bind address.
func (c *commandContext) apiClient() (*client.Client, error) {
	if c.serverFlag != nil {
		if base := strings.TrimSpace(*c.serverFlag); base != "" {
			return client.New(base), nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return client.NewForBind(cfg.Paths.Bind), nil
}
