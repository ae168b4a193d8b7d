package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"postcraft.app/postcraft/internal/cli"
	"postcraft.app/postcraft/internal/config"
	"postcraft.app/postcraft/internal/logging"
	"postcraft.app/postcraft/internal/provider"
	"postcraft.app/postcraft/internal/store"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Health check timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := store.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("health check failed to connect to database")
		fmt.Fprintf(os.Stderr, "Database: FAILED (%v)\n", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Database: FAILED (%v)\n", err)
		return 1
	}
	fmt.Println("Database: OK")

	registry := provider.NewRegistryFromConfig(cfg)
	names := registry.ProviderNames()
	if len(names) == 0 {
		fmt.Println("Providers: none configured (generation will fall back)")
	} else {
		fmt.Printf("Providers: %s (default: %s)\n", strings.Join(names, ", "), registry.DefaultProvider())
	}

	return 0
}
