package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StorageFile, cfg.StorageDriver)
	require.Equal(t, "data/mudir.json", cfg.DataFile)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "₹", cfg.DefaultCurrency)
	require.Equal(t, 7, cfg.BackupKeep)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigValidation(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "PG_DSN")

	t.Setenv("PG_DSN", "postgres://mudir@localhost/mudir")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StoragePostgres, cfg.StorageDriver)

	t.Setenv("BACKUP_DRIVER", "s3")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "BACKUP_BUCKET")

	t.Setenv("BACKUP_DRIVER", "ftp")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "BACKUP_DRIVER")

	t.Setenv("BACKUP_DRIVER", "local")
	t.Setenv("DATE_LOCATION", "Mars/Olympus")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "DATE_LOCATION")
}

func TestLocation(t *testing.T) {
	cfg := &Config{DateLocation: "Asia/Kolkata"}
	require.Equal(t, "Asia/Kolkata", cfg.Location().String())

	var missing *Config
	require.Equal(t, time.Local, missing.Location())
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
