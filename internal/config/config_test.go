package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "graph", cfg.Storage.Backend)
	assert.Equal(t, "RRHH/Cargas", cfg.Storage.InputFolder)
	assert.Equal(t, "RRHH/Documentos", cfg.Storage.OutputFolderBase)
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.Storage.Graph.BaseURL)
	assert.Equal(t, 10.0, cfg.Storage.Graph.RateLimit)
	assert.Equal(t, "http://localhost:3050", cfg.Render.BaseURL)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hrdocs.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "contract", cfg.Sweep.DocumentFamily)
	assert.Equal(t, 1, cfg.Sweep.HeaderRow)
	assert.True(t, cfg.Sweep.SkipEmptyRows)
	assert.Equal(t, 0, cfg.Sweep.MaxRetries)
	assert.Equal(t, 20, cfg.Sweep.MaxFileSizeMB)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HRDOCS_STORAGE_BACKEND", "ftp")
	t.Setenv("HRDOCS_SWEEP_DOCUMENT_FAMILY", "addendum")
	t.Setenv("HRDOCS_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ftp", cfg.Storage.Backend)
	assert.Equal(t, "addendum", cfg.Sweep.DocumentFamily)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
}
