package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	HomeAssistant HomeAssistantConfig `mapstructure:"homeassistant"`
	Filter        FilterConfig        `mapstructure:"filter"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// HomeAssistantConfig holds Home Assistant connection details. URL and
// Token may be left empty, in which case HA_URL and HA_TOKEN are used.
type HomeAssistantConfig struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	EnvFiles []string      `mapstructure:"env_files"`
}

// FilterConfig contains named state filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
