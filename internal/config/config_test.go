package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaehyun-p/solar-chat/internal/config"
	"github.com/jaehyun-p/solar-chat/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SOLARCHAT_CONFIG", "SOLARCHAT_PORT", "SOLARCHAT_PROVIDER",
		"SOLARCHAT_MODEL", "SOLAR_API_KEY", "SOLAR_API_BASE",
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "SOLARCHAT_LLM_TIMEOUT",
		"SOLARCHAT_STORAGE", "SOLARCHAT_GCP_PROJECT",
		"SOLARCHAT_SENTIMENT_MODEL", "SOLARCHAT_HF_BASE", "HF_API_TOKEN",
		"SOLARCHAT_SENTIMENT_OFF",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLAR_API_KEY", "up_test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.ProviderSolar, cfg.Provider)
	assert.Equal(t, "solar-pro", cfg.Model)
	assert.Equal(t, "up_test", cfg.SolarAPIKey)
	assert.Equal(t, "https://api.upstage.ai/v1/solar", cfg.SolarAPIBase)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "nlp04/korean_sentiment_analysis_kcelectra", cfg.SentimentModel)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
}

func TestLoadMissingSolarKey(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "SOLAR_API_KEY")
}

func TestLoadMockProviderNeedsNoKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLARCHAT_PROVIDER", "mock")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ProviderMock, cfg.Provider)
}

func TestLoadUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLARCHAT_PROVIDER", "bard")

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadFirestoreNeedsProject(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLAR_API_KEY", "up_test")
	t.Setenv("SOLARCHAT_STORAGE", "firestore")

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLAR_API_KEY", "up_test")
	t.Setenv("SOLARCHAT_LLM_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"9090\"\nprovider: mock\nmodel: solar-mini\nllm_timeout_seconds: 10\n",
	), 0o644))

	t.Setenv("SOLARCHAT_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.ProviderMock, cfg.Provider)
	assert.Equal(t, "solar-mini", cfg.Model)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
}

func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nprovider: mock\n"), 0o644))

	t.Setenv("SOLARCHAT_CONFIG", path)
	t.Setenv("SOLARCHAT_PORT", "7070")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t:::not yaml"), 0o644))

	t.Setenv("SOLARCHAT_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
