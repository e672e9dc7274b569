// Package config loads the twitter-requester settings with defaults < file < env precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/NethermindEth/twitter-requester/pkg/twitter"
)

// EnvPrefix is shared by every environment key, e.g. TWITTER_API_KEY.
const EnvPrefix = "TWITTER_"

type Config struct {
	APIKey            string `koanf:"api_key"`
	APISecret         string `koanf:"api_secret"`
	AccessToken       string `koanf:"access_token"`
	AccessTokenSecret string `koanf:"access_token_secret"`
	// SelfID is read from TWITTER_ID and stays empty when unset
	SelfID string `koanf:"id"`

	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	LikeConcurrency   int           `koanf:"like_concurrency"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.twitter.com/1.1",
		Timeout:         30 * time.Second,
		LikeConcurrency: 4,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load layers DefaultConfig, the optional YAML file at path, and TWITTER_* variables.
func Load(path string) (Config, error) {
	defaults := DefaultConfig()
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"id":                  defaults.SelfID,
		"base_url":            defaults.BaseURL,
		"timeout":             defaults.Timeout.String(),
		"requests_per_second": defaults.RequestsPerSecond,
		"like_concurrency":    defaults.LikeConcurrency,
		"log_level":           defaults.LogLevel,
		"log_format":          defaults.LogFormat,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: file %s not found", path)
			}
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the requester cannot run with. Missing
// credentials are left to twitter.NewRequester so it reports the field.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config: requests_per_second must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.LikeConcurrency < 1 {
		return fmt.Errorf("config: like_concurrency must be at least 1, got %d", c.LikeConcurrency)
	}
	return nil
}

func (c Config) Credentials() twitter.Credentials {
	return twitter.Credentials{
		APIKey:            c.APIKey,
		APISecret:         c.APISecret,
		AccessToken:       c.AccessToken,
		AccessTokenSecret: c.AccessTokenSecret,
	}
}

// RequesterConfig maps the loaded settings onto twitter.RequesterConfig.
func (c Config) RequesterConfig() twitter.RequesterConfig {
	return twitter.RequesterConfig{
		Credentials: c.Credentials(),
		SelfID:      c.SelfID,
		API: twitter.APIConfig{
			BaseURL:           c.BaseURL,
			Timeout:           c.Timeout,
			RequestsPerSecond: c.RequestsPerSecond,
		},
		LikeConcurrency: c.LikeConcurrency,
	}
}
