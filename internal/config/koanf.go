// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"deckvault.yaml",
	"deckvault.yml",
	"/etc/deckvault/config.yaml",
	"/etc/deckvault/config.yml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "DECKVAULT_CONFIG"

// Load builds the configuration from layered sources: built-in defaults,
// then an optional YAML config file, then environment variables. Later
// layers win.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFromPath is Load with an explicit config file instead of the search
// paths. The file must exist.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, honoring the
// DECKVAULT_CONFIG override, or empty string when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return empty string and are skipped, so unrelated
// environment noise never pollutes the config.
//
// Examples:
//   - CATALOG_BASE_URL -> catalog.base_url
//   - CACHE_TTL        -> cache.ttl
//   - LOG_LEVEL        -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"catalog_base_url":   "catalog.base_url",
		"catalog_timeout":    "catalog.timeout",
		"catalog_user_agent": "catalog.user_agent",

		"cache_ttl":                     "cache.ttl",
		"cache_max_entries":             "cache.max_entries",
		"cache_warmup_batch_size":       "cache.warmup_batch_size",
		"cache_warmup_parallel_batches": "cache.warmup_parallel_batches",
		"cache_warmup_interval":         "cache.warmup_interval",

		"storage_path":      "storage.path",
		"storage_in_memory": "storage.in_memory",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile watches a config file for changes and invokes callback on
// each change. The caller is responsible for reloading and for any locking
// around the active configuration.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
