package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_DefaultsAppliedWhenFieldsOmitted(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
sender_comp_id: US
target_comp_id: THEM
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fix.example.com", cfg.Host)
	assert.Equal(t, 9878, cfg.Port)
	assert.Equal(t, "FIX.4.2", cfg.BeginString)
	assert.Equal(t, "initiator", cfg.Role)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, 120*time.Second, cfg.SendingTimeAccuracy)
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.Equal(t, "./fix-store", cfg.Store.Path)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
sender_comp_id: US
target_comp_id: THEM
begin_string: FIX.4.4
role: acceptor
heartbeat_timeout: 45s
store:
  backend: sql
  dsn: "postgres://localhost/fix"
monitor:
  listen_addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "FIX.4.4", cfg.BeginString)
	assert.Equal(t, "acceptor", cfg.Role)
	assert.Equal(t, 45*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, "sql", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/fix", cfg.Store.DSN)
	assert.Equal(t, ":9100", cfg.Monitor.ListenAddr)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
sender_comp_id: US
target_comp_id: THEM
`)

	t.Setenv("FIX_HOST", "override.example.com")
	t.Setenv("FIX_STORE_BACKEND", "sql")
	t.Setenv("FIX_STORE_DSN", "postgres://localhost/override")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.example.com", cfg.Host)
	assert.Equal(t, "sql", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/override", cfg.Store.DSN)
}

func TestLoad_MissingRequiredFieldsRejected(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidRoleRejected(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
sender_comp_id: US
target_comp_id: THEM
role: proxy
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadgerBackendRequiresPath(t *testing.T) {
	path := writeConfigFile(t, `
host: fix.example.com
port: 9878
sender_comp_id: US
target_comp_id: THEM
store:
  backend: badger
  path: ""
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: 9878}
	assert.Equal(t, "127.0.0.1:9878", cfg.Addr())
}

func TestLogConfig_BuildLogger(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		lc := LogConfig{Level: "debug", Format: format}
		logger, err := lc.BuildLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
	}

	_, err := LogConfig{Format: "xml"}.BuildLogger()
	assert.Error(t, err)
}
