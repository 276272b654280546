package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/rtop/internal/errors"
)

const (
	// ConfigDirName is the directory under the user config dir.
	ConfigDirName = "rtop"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"
)

// DefaultPath returns $XDG_CONFIG_HOME/rtop/config.yaml, falling back to
// ~/.config/rtop/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, ConfigDirName, ConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", ConfigDirName, ConfigFileName)
	}
	return filepath.Join(home, ".config", ConfigDirName, ConfigFileName)
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Press 'w' in the dashboard to write one")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file is valid YAML, or delete it to start over")
	}

	return parseConfig(v, path)
}

// LoadOrDefault loads the config at path and never fails: a missing file
// yields defaults with a nil error, an unreadable file yields defaults with
// the error, and a file with invalid settings yields everything that could
// be read with the error naming what was ignored. The result is not
// normalized; see Normalize.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if cfg == nil {
		return DefaultConfig(), err
	}
	return cfg, err
}

// parseConfig converts viper config to our Config struct with defaults
// merged in. Invalid settings and column entries keep their defaults; when
// any were dropped the config is returned together with an ErrConfig error
// listing them.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	// Settings are decoded one at a time so a bad value only resets itself.
	settings := []struct {
		key    string
		decode func(key string) error
	}{
		{"version", func(k string) error { return decodeInto(v, k, &cfg.Version) }},
		{"interval", func(k string) error { return decodeInto(v, k, &cfg.Interval) }},
		{"tree", func(k string) error { return decodeInto(v, k, &cfg.Tree) }},
		{"details", func(k string) error { return decodeInto(v, k, &cfg.Details) }},
		{"filter_keeps_collapsed", func(k string) error { return decodeInto(v, k, &cfg.FilterKeepsCollapsed) }},
		{"sort.key", func(k string) error { return decodeInto(v, k, &cfg.Sort.Key) }},
		{"sort.ascending", func(k string) error { return decodeInto(v, k, &cfg.Sort.Ascending) }},
	}

	var invalid []string
	for _, s := range settings {
		if err := s.decode(s.key); err != nil {
			invalid = append(invalid, s.key)
		}
	}

	cols, bad := decodeColumns(v.Get("columns"))
	cfg.Columns = cols
	invalid = append(invalid, bad...)

	if len(invalid) > 0 {
		return cfg, errors.New(errors.ErrConfig,
			"Ignored invalid settings: "+strings.Join(invalid, ", "),
			"Fix or remove them in "+path)
	}
	return cfg, nil
}

// decodeInto decodes key into dst, leaving dst untouched on failure.
func decodeInto[T any](v *viper.Viper, key string, dst *T) error {
	var val T
	if err := v.UnmarshalKey(key, &val); err != nil {
		return err
	}
	*dst = val
	return nil
}

// decodeColumns decodes each column entry on its own. Entries that are not
// mappings or hold values of the wrong type are dropped and reported as
// columns[i]; the layout repair fills in whatever is missing.
func decodeColumns(raw any) ([]ColumnConfig, []string) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, []string{"columns"}
	}

	var cols []ColumnConfig
	var invalid []string
	for i, entry := range entries {
		col, err := decodeColumn(entry)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("columns[%d]", i))
			continue
		}
		cols = append(cols, col)
	}
	return cols, invalid
}

func decodeColumn(entry any) (ColumnConfig, error) {
	var col ColumnConfig
	m, ok := entry.(map[string]any)
	if !ok {
		return col, fmt.Errorf("column entry is %T, not a mapping", entry)
	}
	sub := viper.New()
	if err := sub.MergeConfigMap(m); err != nil {
		return col, err
	}
	err := sub.Unmarshal(&col)
	return col, err
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("interval", d.Interval.String())
	v.SetDefault("tree", d.Tree)
	v.SetDefault("details", d.Details)
	v.SetDefault("filter_keeps_collapsed", d.FilterKeepsCollapsed)
	v.SetDefault("sort.key", d.Sort.Key)
	v.SetDefault("sort.ascending", d.Sort.Ascending)
}
