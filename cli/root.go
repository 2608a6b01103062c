// Package cli provides the Cobra-based CLI for the inventory ledger.
package cli

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"inventory_ledger/config"
	"inventory_ledger/logging"
	"inventory_ledger/service"
	"inventory_ledger/store"
)

var (
	rootCmd = &cobra.Command{
		Use:           "inventory",
		Short:         "Product inventory and sales ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests and the shell inject the backend
			if backend != nil {
				return nil
			}

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			lg, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			b, err := store.NewBackend(cmd.Context(), cfg.Store, cfg.InventoryFile, cfg.SalesFile, lg)
			if err != nil {
				return err
			}
			settings, logger, backend = cfg, lg, b
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			// inside the shell, data is saved once on exit
			if inShell {
				return nil
			}
			return flush(cmd.Context())
		},
	}

	backend  *store.Backend
	settings config.Config
	logger   = zap.NewNop()
	inShell  bool

	// stdin is the shell's reader; prompts inside the shell read through it.
	stdin *bufio.Reader
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyStore, "file", "store backend: memory|file")
	pf.String(config.KeyInventoryFile, "data/inventory.json", "inventory file path")
	pf.String(config.KeySalesFile, "data/sales.json", "sales ledger file path")
	pf.String(config.KeyReportDir, ".", "directory for generated reports")
	pf.String(config.KeyConfig, "", "config file")
	pf.String(config.KeyLogLevel, "info", "log level")
	pf.String(config.KeyEnvFile, ".env", "env file with INVENTORY_* variables")

	for _, key := range []string{
		config.KeyStore, config.KeyInventoryFile, config.KeySalesFile,
		config.KeyReportDir, config.KeyConfig, config.KeyLogLevel, config.KeyEnvFile,
	} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
	config.SetDefaults(viper.GetViper())
}

func flush(ctx context.Context) error {
	if backend == nil {
		return nil
	}
	return backend.Flush(ctx)
}

func inventory() *service.Inventory {
	return service.NewInventory(backend.Products, logger)
}

func sales() *service.Sales {
	return service.NewSales(backend.Products, backend.Sales, logger)
}

// input returns the reader prompts should use. Outside the shell it wraps the
// command's input.
func input(cmd *cobra.Command) *bufio.Reader {
	if stdin != nil {
		return stdin
	}
	return bufio.NewReader(cmd.InOrStdin())
}

func reportDir() string {
	if settings.ReportDir == "" {
		return "."
	}
	return settings.ReportDir
}

// resetFlags restores every flag of cmd and its children to its default, so a
// command can run again with a fresh argument list.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.ExecuteContext(context.Background())
}
