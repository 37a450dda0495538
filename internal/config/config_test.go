package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DB_MAX_CONNS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/reports")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "postgres://localhost/reports", cfg.DatabaseURL)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PORT=4000\nDATABASE_URL=\"postgres://file/reports\"\nLOG_FORMAT=json\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "postgres://file/reports", cfg.DatabaseURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFrom_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PORT=4000\nDATABASE_URL=postgres://file/reports\n")
	t.Setenv("PORT", "5000")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database url", env: map[string]string{}},
		{name: "bad port", env: map[string]string{"DATABASE_URL": "x", "PORT": "abc"}},
		{name: "negative max conns", env: map[string]string{"DATABASE_URL": "x", "DB_MAX_CONNS": "-1"}},
		{name: "unknown log format", env: map[string]string{"DATABASE_URL": "x", "LOG_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
