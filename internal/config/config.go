// Package config loads the daemon configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsrecall/tsrecall/internal/embedding"
	"github.com/tsrecall/tsrecall/internal/logging"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// EmbeddingConfig sizes the embedder and, through it, the store. Channels is
// the channel count every stored series must carry; together with
// TargetLength it fixes the store's embedding dimension at startup.
type EmbeddingConfig struct {
	TargetLength int `json:"target_length" yaml:"target_length"`
	Channels     int `json:"channels" yaml:"channels"`
}

// Config is the full daemon configuration.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Logging   logging.Config  `json:"logging" yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 50758},
		Embedding: EmbeddingConfig{TargetLength: embedding.DefaultTargetLength, Channels: 1},
		Logging:   logging.Config{Level: "info", Format: "json"},
	}
}

// Load reads path and overlays it on the defaults, so a partial file only
// overrides the keys it names. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Embedding.TargetLength < 1 {
		return fmt.Errorf("config: embedding target_length must be >= 1, got %d", c.Embedding.TargetLength)
	}
	if c.Embedding.Channels < 1 {
		return fmt.Errorf("config: embedding channels must be >= 1, got %d", c.Embedding.Channels)
	}
	return nil
}
