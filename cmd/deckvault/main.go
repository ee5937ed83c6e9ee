// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Command deckvault is a diagnostic front end for the pricing core: it
// resolves the printings and the price for each card name given on the
// command line, using the same cache, preference, and catalog path the
// library exposes to embedding applications.
//
//	deckvault "Lightning Bolt" "Sol Ring"
//	deckvault -config ./deckvault.yaml -warm "Black Lotus"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"

	"github.com/deckvault/deckvault/internal/catalog"
	"github.com/deckvault/deckvault/internal/config"
	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/pricing"
	"github.com/deckvault/deckvault/internal/printings"
	"github.com/deckvault/deckvault/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (otherwise searched)")
	warm := flag.Bool("warm", false, "pre-warm the printing cache for the given names")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: deckvault [-config file] [-warm] CARD_NAME...")
		os.Exit(2)
	}

	if err := run(*configPath, *warm, flag.Args()); err != nil {
		logging.Error().Err(err).Msg("deckvault failed")
		os.Exit(1)
	}
}

func run(configPath string, warm bool, names []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.UserAgent, cfg.Catalog.Timeout)
	svc := catalog.NewNegativeCacheClient(catalog.NewCircuitBreakerClient(client))

	cache := printings.NewCache(backend, printings.CacheOptions{
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})
	prefs := printings.NewPreferences(backend)
	coord := printings.NewCoordinator(cache, prefs, svc)

	if warm {
		report := printings.NewWarmup(cache, svc, printings.WarmupOptions{
			BatchSize:       cfg.Cache.WarmupBatchSize,
			ParallelBatches: cfg.Cache.WarmupParallelBatches,
			Interval:        cfg.Cache.WarmupInterval,
		}).WarmCache(ctx, names)
		fmt.Printf("warmup: %d fetched, %d cached, %d not found, %d failed\n",
			len(report.Fetched), len(report.Cached), len(report.NotFound), len(report.Failed))
	}

	for _, name := range names {
		if err := showCard(ctx, coord, name); err != nil {
			fmt.Printf("%s: %v\n", name, err)
		}
	}
	return nil
}

func openBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.Storage.InMemory {
		return storage.NewMemoryBackend(), nil
	}
	backend, err := storage.OpenBadger(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage at %s: %w", cfg.Storage.Path, err)
	}
	return backend, nil
}

// showCard resolves one card and prints its printings and price.
func showCard(ctx context.Context, coord *printings.Coordinator, name string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := coord.ResolveDefault(ctx, name)
	if err != nil {
		return err
	}

	record, err := json.Marshal(&res.Selected)
	if err != nil {
		return fmt.Errorf("encode printing: %w", err)
	}
	price := coord.Price(record, pricing.Options{PreferStoredOverride: true})

	fmt.Printf("%s [%s #%s]: %d printing(s), via %s\n",
		res.Selected.Name, res.Selected.Set, res.Selected.CollectorNumber,
		len(res.Printings), res.Origin)
	fmt.Printf("  price: %s (%s", pricing.FormatPrice(price.Price), price.Source)
	if price.Finish.Foil {
		fmt.Print(", foil")
	}
	if price.Finish.Etched {
		fmt.Print(", etched")
	}
	fmt.Println(")")
	return nil
}
