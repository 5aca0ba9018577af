// Package config loads runtime configuration from an optional config file,
// environment variables (prefix ROAMCLEAR), and an optional .env file.
// The resolved Config value is injected through fx; nothing here is mutable
// package state.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(New),
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LedgerConfig struct {
	// Backend selects the world-state driver: memory, redis or sqlite.
	Backend   string `mapstructure:"backend"`
	Namespace string `mapstructure:"namespace"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Log    LogConfig    `mapstructure:"log"`
}

func New() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("roamclear")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/roamclear")

	v.SetEnvPrefix("ROAMCLEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("ledger.backend", "memory")
	v.SetDefault("ledger.namespace", "roamclear")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sqlite.path", "roamclear.db")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Ledger.Backend {
	case "memory", "redis", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
	return cfg, nil
}
