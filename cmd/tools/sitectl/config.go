// cmd/tools/sitectl/config.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"site-builder/internal/common/config"
	"site-builder/internal/common/logger"
	configstore "site-builder/internal/services/site/config-store"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the stored business config",
	}
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigExportCmd(),
		newConfigImportCmd(),
		newConfigValidateCmd(),
		newConfigResetCmd(),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current business config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(e *env) error {
				return printJSON(e.store.Get())
			})
		},
	}
}

func newConfigExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored config in its persisted format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(e *env) error {
				blob, err := e.store.Export()
				if err != nil {
					return err
				}
				if out == "" {
					_, err = os.Stdout.Write(append(blob, '\n'))
					return err
				}
				if err := os.WriteFile(out, blob, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Printf("Config exported to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newConfigImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored config with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			return withStore(cmd.Context(), func(e *env) error {
				cfg, err := e.store.Import(cmd.Context(), raw)
				if err != nil {
					return err
				}
				fmt.Printf("Imported config for %s\n", cfg.CompanyName)
				return nil
			})
		},
	}
}

// validate runs the import checks against a throwaway in-memory store.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config file without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			store := configstore.New(configstore.NewMemoryPersister(), newLogger(cfg))
			if _, err := store.Import(cmd.Context(), raw); err != nil {
				return err
			}
			fmt.Printf("%s is valid\n", args[0])
			return nil
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default business config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return withStore(cmd.Context(), func(e *env) error {
				if _, err := e.store.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Config reset to defaults")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

// env is what every store-backed command works with.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	store *configstore.Store
}

func withStore(ctx context.Context, fn func(*env) error) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(&env{cfg: cfg, log: log, store: store})
}
