// internal/workers/matching/calculate-match-score/config.go
package calculatematchscore

import "time"

type Config struct {
	Timeout time.Duration
}

// LoadConfig returns the default worker configuration.
func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
