package config

import "time"

type HTTPVars struct {
	RequestTimeout    time.Duration `env:"TAXFREE_HTTP_TIMEOUT,default=30s"`
	BridgeDialTimeout time.Duration `env:"TAXFREE_BRIDGE_DIAL_TIMEOUT,default=5s"`
}

var _ HTTPConfig = HTTPVars{}

// GetRequestTimeout is the uniform deadline applied to every request.
func (h HTTPVars) GetRequestTimeout() time.Duration {
	return h.RequestTimeout
}

func (h HTTPVars) GetBridgeDialTimeout() time.Duration {
	return h.BridgeDialTimeout
}
