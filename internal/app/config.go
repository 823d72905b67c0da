package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vk/codephy/internal/assemble"
	"gopkg.in/yaml.v3"
)

// RemoteConfig locates the socket.io engine used by the emit command.
type RemoteConfig struct {
	URL                string        `yaml:"url" validate:"omitempty,url"`
	Namespace          string        `yaml:"namespace"`
	Timeout            time.Duration `yaml:"timeout" validate:"gte=0"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Policy             string        `yaml:"policy" validate:"omitempty,oneof=zero-density reject-proposal ignore"`
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogLevel  string       `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string       `yaml:"log_format" validate:"oneof=text json"`
	Workers   int          `yaml:"workers" validate:"gte=0"`
	Listen    string       `yaml:"listen" validate:"required"`
	Remote    RemoteConfig `yaml:"remote"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   4,
		Listen:    ":8080",
		Remote: RemoteConfig{
			Namespace: "/",
			Timeout:   15 * time.Second,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// returns the validated defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.Validate()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ConstraintPolicy returns the constraint policy announced to the remote engine.
func (r RemoteConfig) ConstraintPolicy() assemble.ConstraintPolicy {
	if r.Policy == "" {
		return assemble.DefaultPolicy
	}
	return assemble.ConstraintPolicy(r.Policy)
}
