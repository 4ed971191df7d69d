// Package config loads the example server's configuration. The
// library packages themselves take no environment input; this exists
// only for the process entry point.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains example server settings.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MemcachedAddr enables the GET response cache when set,
	// e.g. "localhost:11211".
	MemcachedAddr string `koanf:"memcached_addr"`

	// CacheTTL is the response cache expiration in seconds.
	CacheTTL int `koanf:"cache_ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:     ":5000",
		LogLevel: "info",
		CacheTTL: 60,
	}
}

// Load layers settings: defaults, then a YAML file named by
// MICROSERVICES_CONFIG if set, then MICROSERVICES_-prefixed
// environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("MICROSERVICES_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// MICROSERVICES_LOG_LEVEL -> log_level, flat keys.
	envProvider := env.Provider("MICROSERVICES_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "microservices_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg,
		koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	return cfg, nil
}
