// Package config loads the footdata configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matchpulse/footdata/pkg/client"
	"github.com/matchpulse/footdata/pkg/logging"
)

// Config holds all configuration for the footdata service.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ProviderConfig selects and authenticates the api-football provider.
type ProviderConfig struct {
	// Name is "apisports" or "rapidapi".
	Name    string `mapstructure:"name"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	// Timezone is injected into every request unless the caller overrides it.
	Timezone string        `mapstructure:"timezone"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds the relational cache store configuration.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig holds the optional Redis connection. When disabled the quota
// tracker is off and the relational store is the only cache backend.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from the given file (optional) and FOOTDATA_*
// environment variables. Environment variables win over file values, so
// FOOTDATA_PROVIDER_API_KEY overrides provider.api_key.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("footdata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("FOOTDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine when env vars carry the settings.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c *Config) Validate() error {
	if _, err := client.ParseProvider(c.Provider.Name); err != nil {
		return err
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}

// ClientConfig builds the api-football client configuration.
func (c *Config) ClientConfig() (client.Config, error) {
	provider, err := client.ParseProvider(c.Provider.Name)
	if err != nil {
		return client.Config{}, err
	}
	cfg := client.DefaultConfig(provider, c.Provider.APIKey)
	if c.Provider.BaseURL != "" {
		cfg.BaseURL = c.Provider.BaseURL
	}
	if c.Provider.Timezone != "" {
		cfg.DefaultTimezone = c.Provider.Timezone
	}
	if c.Provider.Timeout > 0 {
		cfg.Timeout = c.Provider.Timeout
	}
	return cfg, nil
}

// LogSetup builds the logging setup configuration.
func (c *Config) LogSetup() logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(c.Logging.Level),
		Pretty: c.Logging.Pretty,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "apisports")
	// Registered empty so the env-only FOOTDATA_PROVIDER_API_KEY is seen
	// by Unmarshal.
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.base_url", client.DefaultBaseURL)
	v.SetDefault("provider.timezone", "Asia/Seoul")
	v.SetDefault("provider.timeout", "15s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "footdata.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}
