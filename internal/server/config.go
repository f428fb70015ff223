package server

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config defines runtime parameters for the HTTP server. Values load from
// an optional YAML file and can be overridden by FINCORE_* environment
// variables.
type Config struct {
	Address   string        `mapstructure:"address"`
	RedisAddr string        `mapstructure:"redis_addr"` // empty means in-memory cache
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

// LoadConfig loads the server configuration. A missing file is not an
// error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("address", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvPrefix("FINCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read server config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	return &cfg, nil
}
