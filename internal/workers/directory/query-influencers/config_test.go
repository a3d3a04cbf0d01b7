package queryinfluencers

import (
	"testing"
	"time"

	"nanomatch/internal/common/config"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		wcfg        config.WorkerConfig
		wantTimeout time.Duration
		wantDefault int
		wantMax     int
	}{
		{"defaults", config.WorkerConfig{}, 5 * time.Second, 5, 100},
		{"overrides", config.WorkerConfig{Timeout: 2000, DefaultLimit: 8, MaxLimit: 40}, 2 * time.Second, 8, 40},
		{"default above max", config.WorkerConfig{DefaultLimit: 30, MaxLimit: 10}, 5 * time.Second, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.wcfg)
			assert.Equal(t, tt.wantTimeout, cfg.Timeout)
			assert.Equal(t, tt.wantDefault, cfg.DefaultLimit)
			assert.Equal(t, tt.wantMax, cfg.MaxLimit)
		})
	}
}
