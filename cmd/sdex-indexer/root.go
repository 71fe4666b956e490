package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sdexindex/internal/core/version"
	"sdexindex/internal/modkit"
	"sdexindex/internal/platform/config"
	"sdexindex/internal/platform/logger"
	"sdexindex/internal/platform/store"
	ingestmod "sdexindex/internal/services/ingest/module"

	"github.com/spf13/cobra"
)

const serviceName = "sdex-indexer"

var (
	// global flags
	logLevel  string
	logFormat string
	network   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Ingest and normalize Stellar DEX offers from Horizon",
	Long: `sdex-indexer pages through Horizon /offers in cursor order, validates every
record into a normalized offer and stores the book in postgres, with an optional
clickhouse snapshot history. Configuration comes from SDEX_*, SERVICE_* and LOG_* env vars.`,
	Version:       version.Info(serviceName).Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		opt := logger.FromEnv()
		opt.Service = serviceName
		if logLevel != "" {
			opt.Level = logLevel
		}
		if logFormat != "" {
			opt.Format = logFormat
		}
		if network != "" {
			opt.Network = network
		}
		logger.Init(opt)
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "console or json, overrides LOG_FORMAT")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "network label stamped on every log line, e.g. pubnet")

	rootCmd.AddCommand(runCmd, onceCmd, fetchCmd, migrateCmd, statusCmd)
}

// openStore connects postgres and, when enabled, clickhouse
func openStore(ctx context.Context) (*store.Store, error) {
	cfg := store.ConfigFrom(config.New(), serviceName, version.Info(serviceName).Version)
	if cfg.PG.URL == "" {
		return nil, errors.New("SERVICE_PGSQL_DBURL or DATABASE_URL is required")
	}
	return store.Open(ctx, cfg, store.WithLogger(*logger.Get()))
}

func closeStore(st *store.Store) {
	if err := st.Close(context.Background()); err != nil {
		logger.Get().Error().Err(err).Msg("failed to close store")
	}
}

// newIngest builds the ingest module over st from SDEX_* config
func newIngest(st *store.Store) *ingestmod.Module {
	root := config.New()
	return ingestmod.New(modkit.FromStore(st, root), ingestmod.FromConfig(root), nil)
}
