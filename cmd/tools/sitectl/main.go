// Package main is the entrypoint for sitectl, the site builder admin CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"site-builder/internal/common/config"
	"site-builder/internal/common/database"
	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	configstore "site-builder/internal/services/site/config-store"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// globals shared by subcommands
var (
	configFile string
	verbose    bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitectl",
		Short: "Admin tool for the site builder",
		Long: `sitectl manages the business config, previews booking slots,
tests the lead webhook and drives image generation and site export
using the same configuration as site-server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config.yaml (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newSlotsCmd(),
		newTestWebhookCmd(),
		newImageCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sitectl %s\n", Version)
			fmt.Printf("  Commit:     %s\n", Commit)
			fmt.Printf("  Go version: %s\n", runtime.Version())
		},
	}
}

func loadAppConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logger.Logger {
	if !verbose {
		return logger.NewNoOpLogger()
	}
	return logger.NewStructured(cfg.Logging.Level, "console")
}

// openStore loads the business config from the configured backend. The
// returned close func releases the redis connection, if any.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*configstore.Store, func(), error) {
	var (
		client *redis.Client
		closer = func() {}
	)
	if cfg.Storage.Backend == "redis" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, nil, err
		}
		if err := rdb.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		client = rdb.GetClient()
		closer = func() { _ = rdb.Close() }
	}

	persister, err := configstore.NewPersister(cfg.Storage, client)
	if err != nil {
		closer()
		return nil, nil, err
	}
	store := configstore.New(persister, log)
	if err := store.Load(ctx); err != nil {
		closer()
		return nil, nil, err
	}
	return store, closer, nil
}

// describe prefers the details of a StandardError over its generic message.
func describe(err error) string {
	if stdErr, ok := apperrors.AsStandardError(err); ok && stdErr.Details != "" {
		return fmt.Sprintf("%s: %s", stdErr.Message, stdErr.Details)
	}
	return err.Error()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
