package config

// Config represents the complete configuration structure
type Config struct {
	HelpScout HelpScoutConfig `mapstructure:"helpscout"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// HelpScoutConfig holds Help Scout API credentials and connection details
type HelpScoutConfig struct {
	AppID      string `mapstructure:"app_id"`
	AppSecret  string `mapstructure:"app_secret"`
	APIVersion string `mapstructure:"api_version"`
	BaseURL    string `mapstructure:"base_url"`
}

// RedisConfig holds the optional shared rate-limit state backend
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}
