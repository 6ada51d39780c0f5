// Package config loads CLI configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file and HELPSCOUT_* environment
// variables. A missing config file is not an error when the path is empty;
// credentials may come entirely from the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HELPSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hsctl"))
		}

		v.AddConfigPath("/etc/hsctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Credentials default to empty so viper binds their env vars
	// even without a config file.
	v.SetDefault("helpscout.app_id", "")
	v.SetDefault("helpscout.app_secret", "")
	v.SetDefault("helpscout.api_version", "v2")
	v.SetDefault("helpscout.base_url", "https://api.helpscout.net")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.HelpScout.AppID == "" {
		return fmt.Errorf("helpscout.app_id is required")
	}

	if cfg.HelpScout.AppSecret == "" {
		return fmt.Errorf("helpscout.app_secret is required")
	}

	if cfg.HelpScout.APIVersion != "v1" && cfg.HelpScout.APIVersion != "v2" {
		return fmt.Errorf("invalid helpscout.api_version: %s (must be 'v1' or 'v2')", cfg.HelpScout.APIVersion)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	return nil
}
