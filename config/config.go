package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the fixed startup parameters for the server.
type Config struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	EnginePath    string `mapstructure:"engine_path"`
	PoolSize      int    `mapstructure:"pool_size"`
	DefaultDepth  int    `mapstructure:"default_depth"`
	MaxDepth      int    `mapstructure:"max_depth"`
	EngineHashMB  int    `mapstructure:"engine_hash_mb"`
	EngineThreads int    `mapstructure:"engine_threads"`
	Debug         bool   `mapstructure:"debug"`
}

// Load resolves configuration from defaults, an optional chessrelay.yaml in
// dir, and CHESSRELAY_* environment variables, in increasing precedence.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("engine_path", "stockfish")
	v.SetDefault("pool_size", 4)
	v.SetDefault("default_depth", 12)
	v.SetDefault("max_depth", 30)
	v.SetDefault("engine_hash_mb", 128)
	v.SetDefault("engine_threads", 1)
	v.SetDefault("debug", false)

	v.SetConfigName("chessrelay")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("CHESSRELAY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants startup relies on.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.EnginePath == "" {
		return errors.New("engine_path is required")
	}
	if c.DefaultDepth <= 0 {
		return fmt.Errorf("default_depth must be positive, got %d", c.DefaultDepth)
	}
	if c.MaxDepth < c.DefaultDepth {
		return fmt.Errorf("max_depth (%d) must be >= default_depth (%d)", c.MaxDepth, c.DefaultDepth)
	}
	return nil
}
