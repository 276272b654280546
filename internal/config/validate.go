package config

import (
	"fmt"
	"strings"
	"time"
)

// Normalize repairs out-of-range values in place and returns a note for
// each repair. It never rejects a config.
func Normalize(cfg *Config) []string {
	var notes []string

	switch {
	case cfg.Interval <= 0:
		cfg.Interval = DefaultInterval
	case cfg.Interval < MinInterval:
		notes = append(notes, fmt.Sprintf("interval %s is below the minimum, using %s", cfg.Interval, MinInterval))
		cfg.Interval = MinInterval
	}

	if cfg.Version != CurrentConfigVersion {
		notes = append(notes, fmt.Sprintf("config version %d is not %d, unknown fields are ignored", cfg.Version, CurrentConfigVersion))
		cfg.Version = CurrentConfigVersion
	}

	cfg.Sort.Key = strings.ToLower(strings.TrimSpace(cfg.Sort.Key))

	for i := range cfg.Columns {
		cfg.Columns[i].Key = strings.ToLower(strings.TrimSpace(cfg.Columns[i].Key))
	}

	return notes
}

// ClampInterval applies the same bounds as Normalize to a flag value.
func ClampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultInterval
	}
	return max(d, MinInterval)
}
