package config

import (
	"os"
	"path/filepath"
)

// BridgeAddrVar is set by the desktop shell when it spawns the client helper.
// Its presence is the runtime marker used by IsDesktopRuntime.
const BridgeAddrVar = "TAXFREE_BRIDGE_ADDR"

const sessionFileName = "session.json"

type EnvVars struct {
	AppName        string `env:"TAXFREE_APP_NAME,default=Tax Free RDC"`
	BaseURL        string `env:"TAXFREE_API_URL,default=https://api.taxfreerdc.cd"`
	DesktopBaseURL string `env:"TAXFREE_DESKTOP_API_URL,default=https://api.taxfreerdc.cd"`
	BridgeAddr     string `env:"TAXFREE_BRIDGE_ADDR"`
	SessionFile    string `env:"TAXFREE_SESSION_FILE"`
	LogLevel       string `env:"TAXFREE_LOG_LEVEL,default=info"`
	Env            string `env:"ENV,default=DEV"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetBaseURL returns the API origin used when running in a regular process
// (e.g. "https://api.taxfreerdc.cd"). Paths are resolved against "<origin>/api".
func (e EnvVars) GetBaseURL() string {
	return e.BaseURL
}

// GetDesktopBaseURL returns the fixed remote origin used inside the desktop
// shell, where relative resolution is unavailable.
func (e EnvVars) GetDesktopBaseURL() string {
	return e.DesktopBaseURL
}

func (e EnvVars) GetBridgeAddr() string {
	return e.BridgeAddr
}

// GetSessionFile returns the path of the persisted session state. Defaults to
// a fixed file under the user's config dir.
func (e EnvVars) GetSessionFile() (string, error) {
	if e.SessionFile != "" {
		return e.SessionFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taxfree-rdc", sessionFileName), nil
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

// IsDesktopRuntime reports whether the process was started by the desktop
// shell. Pure predicate over the injected environment marker; a plain process
// without the marker is treated as a browser-equivalent runtime.
func IsDesktopRuntime() bool {
	return os.Getenv(BridgeAddrVar) != ""
}
