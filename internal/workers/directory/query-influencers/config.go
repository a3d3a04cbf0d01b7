// internal/workers/directory/query-influencers/config.go
package queryinfluencers

import (
	"time"

	"nanomatch/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

// LoadConfig returns the built-in defaults: five rows unless asked otherwise, at most 100.
func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		DefaultLimit: 5,
		MaxLimit:     100,
	}
}

// NewConfig layers the workers.query-influencers settings over the defaults.
// A default above the maximum is lowered to the maximum.
func NewConfig(wcfg config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	if wcfg.DefaultLimit > 0 {
		cfg.DefaultLimit = wcfg.DefaultLimit
	}
	if wcfg.MaxLimit > 0 {
		cfg.MaxLimit = wcfg.MaxLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}
