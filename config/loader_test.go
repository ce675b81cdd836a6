package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 16199, cfg.Server.Port)
	assert.Equal(t, 60000, cfg.Poll.IntervalMS)
	assert.Equal(t, 15000, cfg.Poll.TimeoutMS)
	assert.Equal(t, "JOURNEYS", cfg.NATS.Stream)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
viaggiatreno:
  baseURL: http://vt.example.test/api
poll:
  intervalMS: 30000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://vt.example.test/api", cfg.ViaggiaTreno.BaseURL)
	assert.Equal(t, 30000, cfg.Poll.IntervalMS)
	assert.Equal(t, 15000, cfg.Poll.TimeoutMS, "unset values still default")
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9100\n")
	t.Setenv("RAILTRACK_PORT", "9200")
	t.Setenv("RAILTRACK_NATS_URL", "nats://127.0.0.1:4222")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	path := writeConfig(t, "italo:\n  baseURL: not-a-url\n")

	_, err := Load(path)
	assert.Error(t, err)
}
