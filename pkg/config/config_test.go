package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "Gudang Utama", cfg.Inventory.PrimaryLocation)
	assert.Equal(t, config.DefaultLocations, cfg.Inventory.Locations)
	assert.Equal(t, "2", cfg.Inventory.RestockSafetyFactor.String())
	assert.Equal(t, 3*time.Second, cfg.Sync.AutoPushDelay())
	assert.Equal(t, time.Minute, cfg.Sync.PullInterval())
	assert.Equal(t, 30*time.Second, cfg.Sync.HTTPTimeout())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_UbicacionesDesdeEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("INVENTORY_PRIMARY_LOCATION", "Central")
	t.Setenv("INVENTORY_LOCATIONS", "Repair, Central ,,Lantai 2,Repair")
	t.Setenv("SYNC_AUTO_PUSH_DELAY_MS", "500")
	t.Setenv("RESTOCK_SAFETY_FACTOR", "1.5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Central", "Repair", "Lantai 2"}, cfg.Inventory.Locations)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.AutoPushDelay())
	assert.Equal(t, "1.5", cfg.Inventory.RestockSafetyFactor.String())
}

func TestLoad_RechazaValoresInvalidos(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("RESTOCK_SAFETY_FACTOR", "0")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/stock?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
