package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
	Debug   bool   `mapstructure:"debug"`
}

type AgentConfig struct {
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	Jitter     time.Duration `mapstructure:"jitter"`
	MaxResults int           `mapstructure:"max_results"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

var ErrMissingToken = errors.New("telegram token is required (set TELEGRAM_TOKEN or telegram.token)")

// LoadConfig reads path if it is non-empty and exists, then applies
// environment overrides. A .env file in the working directory is honored.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	v.SetDefault("telegram.timeout", 60)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("agent.base_delay", time.Second)
	v.SetDefault("agent.jitter", time.Second)
	v.SetDefault("agent.max_results", 6)
	v.SetDefault("catalog.path", "")
	v.SetDefault("log.development", false)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if catalogPath := v.GetString("CATALOG_PATH"); catalogPath != "" {
		config.Catalog.Path = catalogPath
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Agent.BaseDelay < 0 || c.Agent.Jitter < 0 {
		return fmt.Errorf("agent delays must not be negative")
	}
	if c.Agent.MaxResults < 0 {
		return fmt.Errorf("agent.max_results must not be negative")
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("telegram.timeout must be positive")
	}
	return nil
}

// RequireToken is checked only by commands that talk to Telegram.
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}
