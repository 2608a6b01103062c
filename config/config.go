// Package config resolves runtime settings from flags, INVENTORY_* environment
// variables, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "INVENTORY"

// Keys, shared with the CLI flag names.
const (
	KeyConfig        = "config"
	KeyStore         = "store"
	KeyInventoryFile = "inventory-file"
	KeySalesFile     = "sales-file"
	KeyReportDir     = "report-dir"
	KeyLogLevel      = "log-level"
	KeyEnvFile       = "env-file"
)

// Config holds the resolved settings.
type Config struct {
	Store         string
	InventoryFile string
	SalesFile     string
	ReportDir     string
	LogLevel      string
	EnvFile       string
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStore, "file")
	v.SetDefault(KeyInventoryFile, "data/inventory.json")
	v.SetDefault(KeySalesFile, "data/sales.json")
	v.SetDefault(KeyReportDir, ".")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnvFile, ".env")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the env file (a missing one is fine), then the config file if
// one is set, and returns the resolved Config. Variables already present in
// the environment win over the env file.
func Load(v *viper.Viper) (Config, error) {
	if envFile := v.GetString(KeyEnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if cfg := v.GetString(KeyConfig); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", cfg, err)
		}
	}

	c := Config{
		Store:         strings.ToLower(v.GetString(KeyStore)),
		InventoryFile: v.GetString(KeyInventoryFile),
		SalesFile:     v.GetString(KeySalesFile),
		ReportDir:     v.GetString(KeyReportDir),
		LogLevel:      v.GetString(KeyLogLevel),
		EnvFile:       v.GetString(KeyEnvFile),
	}
	switch c.Store {
	case "memory", "mem":
	case "file":
		if c.InventoryFile == "" || c.SalesFile == "" {
			return Config{}, fmt.Errorf("file store requires %s and %s", KeyInventoryFile, KeySalesFile)
		}
	default:
		return Config{}, fmt.Errorf("unknown store kind: %s", c.Store)
	}
	if c.ReportDir == "" {
		c.ReportDir = "."
	}
	return c, nil
}
