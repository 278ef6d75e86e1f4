package command

// root.go defines the root command of the foodgram admin CLI and the
// helpers every subcommand uses to reach the database.

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"foodgram/database"
	"foodgram/internal/cache"
	"foodgram/internal/config"
	"foodgram/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var envFile string // optional .env path, loaded before the environment

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "foodgram - admin tooling for the foodgram backend",
	Long: `foodgram is the operator CLI for the recipe backend. It can:
- Apply or roll back the database schema
- Load tag and ingredient reference data from JSON files

Connection settings come from the same environment variables as the API server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this .env file first")
}

// app is what a subcommand gets after connecting.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *database.DB
	cache  *cache.ReferenceCache
	closer func()
}

// connect loads configuration and opens the database, plus Redis when
// REDIS_URL is set. Callers must call app.closer.
func connect(ctx context.Context) (*app, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Init(cfg)

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db, closer: func() { _ = db.Close() }}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn("Redis unavailable, cache will not be invalidated", "error", err)
		} else {
			a.cache = cache.NewReferenceCache(client, cfg.CacheTTL, log)
			a.closer = func() {
				_ = client.Close()
				_ = db.Close()
			}
		}
	}
	return a, nil
}

var (
	success = color.New(color.FgGreen, color.Bold)
	notice  = color.New(color.FgYellow)
)
