// Package config loads gateway configuration from the process environment,
// optionally layered under a YAML config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvPort        = "PORT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvRedisURL    = "REDIS_URL"
	EnvVercelToken = "VERCEL_TOKEN"
	EnvRenderToken = "RENDER_TOKEN"
)

// Config holds process-level settings. Platform tokens are deliberately not
// part of it: they are read per call through a TokenSource so a token added
// or rotated after startup is picked up, and absence stays a request-time
// failure rather than a startup failure.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// RedisURL enables the Redis session store when non-empty.
	RedisURL string `yaml:"redis_url"`

	// VercelAPIURL / RenderAPIURL override the platform API base URLs.
	// Primarily for tests against a stub server.
	VercelAPIURL string `yaml:"vercel_api_url"`
	RenderAPIURL string `yaml:"render_api_url"`
}

// FromEnv builds a Config from environment variables, with defaults for
// anything unset.
func FromEnv() *Config {
	cfg := &Config{
		Port:     os.Getenv(EnvPort),
		LogLevel: os.Getenv(EnvLogLevel),
		RedisURL: os.Getenv(EnvRedisURL),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// ApplyFile layers a YAML config file over the current values. Only keys
// present in the file are overridden.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// TokenSource yields a platform access token. It is consulted once per
// provider call; an empty result means the credential is absent.
type TokenSource func() string

// EnvToken reads the named environment variable on every call.
func EnvToken(name string) TokenSource {
	return func() string {
		return os.Getenv(name)
	}
}

// StaticToken returns a fixed token. Used in tests.
func StaticToken(token string) TokenSource {
	return func() string {
		return token
	}
}
