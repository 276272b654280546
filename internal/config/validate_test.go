package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		interval time.Duration
		notes    int
	}{
		{"defaults untouched", func(*Config) {}, time.Second, 0},
		{"zero interval uses default", func(c *Config) { c.Interval = 0 }, DefaultInterval, 0},
		{"fast interval clamped", func(c *Config) { c.Interval = 10 * time.Millisecond }, MinInterval, 1},
		{"minimum allowed", func(c *Config) { c.Interval = MinInterval }, MinInterval, 0},
		{"unknown version", func(c *Config) { c.Version = 7 }, time.Second, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			notes := Normalize(cfg)
			assert.Len(t, notes, tt.notes)
			assert.Equal(t, tt.interval, cfg.Interval)
			assert.Equal(t, CurrentConfigVersion, cfg.Version)
		})
	}
}

func TestNormalize_Keys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sort.Key = " MEM "
	cfg.Columns = []ColumnConfig{{Key: "PID"}}
	Normalize(cfg)
	assert.Equal(t, "mem", cfg.Sort.Key)
	assert.Equal(t, "pid", cfg.Columns[0].Key)
}

func TestClampInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, ClampInterval(0))
	assert.Equal(t, MinInterval, ClampInterval(time.Millisecond))
	assert.Equal(t, 3*time.Second, ClampInterval(3*time.Second))
}
