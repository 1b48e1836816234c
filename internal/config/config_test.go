package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the test; t.Setenv restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	unsetenv(t, "SIGNUP_ADDR", "SIGNUP_HEALTH_ADDR", "SIGNUP_MAX_UPLOAD")
	c, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "", c.HealthAddr)
	assert.Equal(t, int64(10<<20), c.MaxUpload)
	require.NoError(t, c.Validate())
}

func TestLoadServer_Env(t *testing.T) {
	t.Setenv("SIGNUP_ADDR", ":9000")
	t.Setenv("SIGNUP_HEALTH_ADDR", ":9001")
	t.Setenv("SIGNUP_MAX_UPLOAD", "2048")
	c, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, Server{Addr: ":9000", HealthAddr: ":9001", MaxUpload: 2048}, c)
}

func TestLoadServer_BadNumber(t *testing.T) {
	t.Setenv("SIGNUP_MAX_UPLOAD", "lots")
	_, err := LoadServer()
	require.Error(t, err)
}

func TestLoadWizard_DefaultsAndXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	unsetenv(t, "SIGNUP_DATA_DIR", "SIGNUP_STORAGE", "SIGNUP_SEAL", "SIGNUP_SINK_URL")

	c, err := LoadWizard()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "signup-wizard"), c.DataDir)
	assert.Equal(t, StorageFile, c.Storage)
	assert.True(t, c.Seal)
	assert.Equal(t, "http://localhost:8080/api/submit", c.SinkURL)
	require.NoError(t, c.Validate())
}

func TestWizard_Validate(t *testing.T) {
	t.Parallel()
	ok := Wizard{SinkURL: "http://x", Storage: StorageSQLite, DataDir: "/tmp/x"}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Storage = "redis"
	require.Error(t, bad.Validate())

	bad = ok
	bad.SinkURL = ""
	require.Error(t, bad.Validate())

	mem := Wizard{SinkURL: "http://x", Storage: StorageMemory}
	require.NoError(t, mem.Validate())
}

func TestServer_Validate(t *testing.T) {
	t.Parallel()
	require.Error(t, Server{Addr: "", MaxUpload: 1}.Validate())
	require.Error(t, Server{Addr: ":1", MaxUpload: 0}.Validate())
}

func TestWizard_DebugLogPath(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Wizard{DataDir: "/tmp/x"}.DebugLogPath())
	assert.Empty(t, Wizard{Debug: true}.DebugLogPath())
	assert.Equal(t, filepath.Join("/tmp/x", "debug.log"), Wizard{Debug: true, DataDir: "/tmp/x"}.DebugLogPath())
}
