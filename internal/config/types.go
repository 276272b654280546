package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

const (
	// DefaultInterval is the refresh interval when none is configured.
	DefaultInterval = time.Second
	// MinInterval is the fastest refresh the dashboard accepts.
	MinInterval = 250 * time.Millisecond
)

// Config represents the persisted dashboard preferences.
type Config struct {
	Version  int           `yaml:"version" mapstructure:"version"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Tree starts the dashboard in tree mode instead of the flat list.
	Tree bool `yaml:"tree" mapstructure:"tree"`

	// Details shows the details panel on startup.
	Details bool `yaml:"details" mapstructure:"details"`

	// FilterKeepsCollapsed leaves collapsed subtrees collapsed while a
	// filter is active in tree mode.
	FilterKeepsCollapsed bool `yaml:"filter_keeps_collapsed" mapstructure:"filter_keeps_collapsed"`

	Sort    SortConfig     `yaml:"sort" mapstructure:"sort"`
	Columns []ColumnConfig `yaml:"columns,omitempty" mapstructure:"columns"`
}

// SortConfig is the initial sort.
type SortConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Ascending bool   `yaml:"ascending" mapstructure:"ascending"`
}

// ColumnConfig is the layout of one column. Unknown keys are ignored when
// the layout is applied.
type ColumnConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Visible bool   `yaml:"visible" mapstructure:"visible"`
	Width   int    `yaml:"width" mapstructure:"width"`
	Order   int    `yaml:"order" mapstructure:"order"`
}

// DefaultConfig returns a Config with sensible defaults. Columns are left
// empty; the dashboard fills in its default layout.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Interval: DefaultInterval,
		Tree:     true,
		Sort: SortConfig{
			Key: "cpu",
		},
	}
}
