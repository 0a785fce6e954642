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
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
ai_detection:
  api_key: det-key
fact_check:
  api_key: fc-key
research:
  api_key: res-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "grok-beta", cfg.FactCheck.Model)
	assert.InDelta(t, 0.3, cfg.FactCheck.Temperature, 0.001)
	assert.Equal(t, "sonar-pro", cfg.Research.Model)
	assert.Equal(t, 1500, cfg.Research.MaxTokens)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("VERISCOPE_TEST_KEY", "from-env")

	path := writeConfig(t, `
ai_detection:
  api_key: ${VERISCOPE_TEST_KEY}
fact_check:
  api_key: fc-key
research:
  api_key: res-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Detection.APIKey)
}

func TestLoadRejectsMissingKeys(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGenerateSampleRoundTrips(t *testing.T) {
	t.Setenv("SAPLING_API_KEY", "a")
	t.Setenv("XAI_API_KEY", "b")
	t.Setenv("PERPLEXITY_API_KEY", "c")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.Detection.APIKey)
	assert.Equal(t, "b", cfg.FactCheck.APIKey)
	assert.Equal(t, "c", cfg.Research.APIKey)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.APIKey = "a"
	cfg.FactCheck.APIKey = "b"
	cfg.Research.APIKey = "c"
	cfg.Server.Port = 0

	assert.Error(t, cfg.Validate())
}
