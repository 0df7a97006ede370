// Package config loads server configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Gateway   GatewayConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	DSN string
}

// CatalogConfig points at the namespace definition files loaded at start.
type CatalogConfig struct {
	Dir string
}

// GatewayConfig tunes the binding resolver.
type GatewayConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// TelemetryConfig tunes the event buffer.
type TelemetryConfig struct {
	FlushThreshold int           `mapstructure:"flush_threshold"`
	FlushInterval  time.Duration `mapstructure:"flush_interval"`
	MaxPending     int           `mapstructure:"max_pending"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// GLASSPANE_ (e.g. GLASSPANE_SERVER_ADDR).
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.dsn", "file:glasspane.db?_pragma=foreign_keys(1)")
	v.SetDefault("catalog.dir", "catalogs")
	v.SetDefault("gateway.cache_ttl", "60s")
	v.SetDefault("telemetry.flush_threshold", 100)
	v.SetDefault("telemetry.flush_interval", "30s")
	v.SetDefault("telemetry.max_pending", 1000)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("GLASSPANE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("glasspane")
	}

	v.SetEnvPrefix("GLASSPANE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// An explicitly named config file must load; the implicit ./glasspane
	// search is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
