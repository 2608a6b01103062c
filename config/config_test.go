package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "file", c.Store)
	assert.Equal(t, "data/inventory.json", c.InventoryFile)
	assert.Equal(t, "data/sales.json", c.SalesFile)
	assert.Equal(t, ".", c.ReportDir)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	t.Setenv("INVENTORY_REPORT_DIR", "/tmp/reports")

	c, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Store)
	assert.Equal(t, "/tmp/reports", c.ReportDir)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INVENTORY_LOG_LEVEL=debug\nINVENTORY_SALES_FILE=other/sales.json\n"), 0o644))
	t.Setenv("INVENTORY_LOG_LEVEL", "error")
	// registered so t.Setenv restores the variable the env file sets
	t.Setenv("INVENTORY_SALES_FILE", "")
	require.NoError(t, os.Unsetenv("INVENTORY_SALES_FILE"))

	v := newViper(t)
	v.Set(KeyEnvFile, path)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "error", c.LogLevel, "process environment wins over the env file")
	assert.Equal(t, "other/sales.json", c.SalesFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: memory\nreport-dir: out\n"), 0o644))

	v := newViper(t)
	v.Set(KeyConfig, path)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Store)
	assert.Equal(t, "out", c.ReportDir)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown store", func(t *testing.T) {
		v := newViper(t)
		v.Set(KeyStore, "postgres")
		_, err := Load(v)
		assert.Error(t, err)
	})

	t.Run("file store without paths", func(t *testing.T) {
		v := newViper(t)
		v.Set(KeyInventoryFile, "")
		_, err := Load(v)
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		v := newViper(t)
		v.Set(KeyConfig, filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load(v)
		assert.Error(t, err)
	})
}
