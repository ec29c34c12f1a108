package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"ASTRO_LLM_API_KEY", "ASTRO_RAPIDAPI_KEY", "ASTRO_ASSISTANT_URL", "ASTRO_STORE_DSN"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  api_key: sk-test
  model: gpt-4o-mini
chart:
  api_key: rapid
  timezone: Europe/Berlin
store:
  driver: postgres
  dsn: postgres://localhost/astro
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "Europe/Berlin", cfg.Chart.Timezone)
	assert.Equal(t, "astrologer.p.rapidapi.com", cfg.Chart.Host)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "llm: [unterminated"))
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASTRO_LLM_API_KEY", "env-llm")
	t.Setenv("ASTRO_RAPIDAPI_KEY", "env-rapid")
	t.Setenv("ASTRO_ASSISTANT_URL", "http://assistant.local")
	t.Setenv("ASTRO_STORE_DSN", "file::memory:")

	cfg, err := LoadConfig(writeConfig(t, "llm:\n  api_key: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-llm", cfg.LLM.APIKey)
	assert.Equal(t, "env-rapid", cfg.Chart.APIKey)
	assert.Equal(t, "http://assistant.local", cfg.Assistant.URL)
	assert.Equal(t, "file::memory:", cfg.Store.DSN)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "chart.api_key")

	cfg.LLM.APIKey = "k"
	cfg.Chart.APIKey = "k"
	cfg.Store.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unknown store driver")
}
