// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the pricing core.
type Config struct {
	Catalog CatalogConfig `koanf:"catalog"`
	Cache   CacheConfig   `koanf:"cache"`
	Storage StorageConfig `koanf:"storage"`
	Logging LoggingConfig `koanf:"logging"`
}

// CatalogConfig configures the card catalog API client.
type CatalogConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
}

// CacheConfig configures the printing cache and its warm-up worker.
type CacheConfig struct {
	TTL                   time.Duration `koanf:"ttl"`
	MaxEntries            int           `koanf:"max_entries" validate:"min=10,max=100000"`
	WarmupBatchSize       int           `koanf:"warmup_batch_size" validate:"min=1,max=50"`
	WarmupParallelBatches int           `koanf:"warmup_parallel_batches" validate:"min=1,max=10"`
	WarmupInterval        time.Duration `koanf:"warmup_interval"`
}

// StorageConfig configures the persistent backend. InMemory replaces Badger
// with a volatile store, mainly for tests and dry runs.
type StorageConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults. Defaults are applied first,
// then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   "https://api.scryfall.com",
			Timeout:   10 * time.Second,
			UserAgent: "deckvault/1.0",
		},
		Cache: CacheConfig{
			TTL:                   24 * time.Hour,
			MaxEntries:            1000,
			WarmupBatchSize:       6,
			WarmupParallelBatches: 2,
			WarmupInterval:        250 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path:     "/data/deckvault",
			InMemory: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks tag-expressible rules with the validator, then the
// duration bounds and conditional rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config field %s failed rule %q", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Catalog.Timeout < time.Second || c.Catalog.Timeout > 5*time.Minute {
		return fmt.Errorf("catalog.timeout %s out of range [1s, 5m]", c.Catalog.Timeout)
	}
	if c.Cache.TTL < time.Minute {
		return fmt.Errorf("cache.ttl %s below minimum 1m", c.Cache.TTL)
	}
	if c.Cache.WarmupInterval < 10*time.Millisecond {
		return fmt.Errorf("cache.warmup_interval %s below minimum 10ms", c.Cache.WarmupInterval)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return errors.New("storage.path required unless storage.in_memory is set")
	}
	return nil
}
