package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "4pcam_", cfg.Namespace)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, int64(5*1024*1024), cfg.QuotaBytes)
	assert.Equal(t, 10, cfg.MaxAutosaves)
	assert.False(t, cfg.LogUseCases)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PCAM_DB", "/tmp/clinic.db")
	t.Setenv("PCAM_NAMESPACE", "clinic_")
	t.Setenv("PCAM_CATALOG", "classic")
	t.Setenv("PCAM_DEBOUNCE_MS", "250")
	t.Setenv("PCAM_QUOTA_BYTES", "0")
	t.Setenv("PCAM_MAX_AUTOSAVES", "3")
	t.Setenv("PCAM_LOG_USECASES", "true")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/clinic.db", cfg.DBPath)
	assert.Equal(t, "clinic_", cfg.Namespace)
	assert.Equal(t, "classic", cfg.Catalog)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, int64(0), cfg.QuotaBytes)
	assert.Equal(t, 3, cfg.MaxAutosaves)
	assert.True(t, cfg.LogUseCases)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("PCAM_DEBOUNCE_MS", "soon")
	t.Setenv("PCAM_QUOTA_BYTES", "-5")
	t.Setenv("PCAM_MAX_AUTOSAVES", "0")

	cfg := LoadConfig()

	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, int64(5<<20), cfg.QuotaBytes)
	assert.Equal(t, 10, cfg.MaxAutosaves)
}

func TestResolve_DefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := DefaultConfig().Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pcam", "pcam.db"), cfg.DBPath)

	cfg.DBPath = "/elsewhere.db"
	cfg, err = cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere.db", cfg.DBPath)
}
