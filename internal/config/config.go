package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the top-level configuration for the Tax Free client.
type Config interface {
	EnvConfig
	HTTPConfig
}

// EnvConfig exposes application-level settings taken from the environment.
type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetDesktopBaseURL() string
	GetBridgeAddr() string
	GetSessionFile() (string, error)
	GetLogLevel() string
	GetEnv() string
}

// HTTPConfig exposes request-layer settings.
type HTTPConfig interface {
	GetRequestTimeout() time.Duration
	GetBridgeDialTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	HTTPVars
}

// New decodes configuration from the process environment.
func New() (Config, error) {
	var c mainConfig
	if err := envdecode.Decode(&c); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	return &c, nil
}
