// internal/workers/matching/recommend-influencers/config.go
package recommendinfluencers

import "time"

type Config struct {
	Timeout time.Duration
}

// LoadConfig returns the default worker configuration.
func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
