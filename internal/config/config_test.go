package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "localhost:8082", cfg.HTTPServer.Addr)
	assert.Equal(t, "", cfg.BasePath)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadReadsAllKeys(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage:
  driver: "sqlite"
http_server:
  address: ":9000"
  base_path: "/person-management-backend/api/"
  read_timeout: 3s
  write_timeout: 4s
  idle_timeout: 30s
  shutdown_timeout: 2s
  allowed_origins:
    - "http://localhost:5173"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":9000", cfg.HTTPServer.Addr)
	assert.Equal(t, "/person-management-backend/api", cfg.BasePath)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("HTTP_SERVER_ADDR", "127.0.0.1:7000")

	path := writeConfig(t, `
env: "staging"
storage:
  driver: "memory"
http_server:
  address: "localhost:8082"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPServer.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown env",
			body: "env: \"qa\"\nhttp_server:\n  address: \"localhost:8082\"\n",
			want: "field Env must be one of [dev staging prod]",
		},
		{
			name: "unknown driver",
			body: "env: \"dev\"\nstorage:\n  driver: \"postgres\"\nhttp_server:\n  address: \"localhost:8082\"\n",
			want: "field Driver must be one of [memory sqlite]",
		},
		{
			name: "address without port",
			body: "env: \"dev\"\nhttp_server:\n  address: \"localhost\"\n",
			want: "field Addr must be a host:port address",
		},
		{
			name: "relative base path",
			body: "env: \"dev\"\nhttp_server:\n  address: \"localhost:8082\"\n  base_path: \"api\"\n",
			want: "field BasePath is invalid",
		},
		{
			name: "negative timeout",
			body: "env: \"dev\"\nhttp_server:\n  address: \"localhost:8082\"\n  shutdown_timeout: -1s\n",
			want: "field ShutdownTimeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}
