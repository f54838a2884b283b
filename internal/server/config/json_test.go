package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":      "www.example:9000",
		"database_dsn":            "identity.db",
		"jwt_secret":              "my_secret_key",
		"cipher_key":              "my_cipher_key",
		"token_validity_duration": "72h",
		"google_client_id":        "client-id",
		"google_client_secret":    "client-secret",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	parseJson(cfg)

	assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "identity.db", cfg.DatabaseDSN)
	assert.Equal(t, "my_secret_key", cfg.JWTSecret)
	assert.Equal(t, "my_cipher_key", cfg.CipherKey)
	assert.Equal(t, 72*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.Equal(t, "client-secret", cfg.GoogleClientSecret)
}

func Test_parseJson_NoFileFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":5000", cfg.EndpointAddrHTTP)
}

func Test_parseJson_BadFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "missing.json")}

	cfg := &Config{}
	require.Panics(t, func() { parseJson(cfg) })
}
