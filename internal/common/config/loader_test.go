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

const minimalConfig = `
camunda:
  broker_address: localhost:26500
genai:
  base_url: ${TEST_GENAI_URL}
database:
  redis:
    address: localhost:6379
  postgres:
    host: localhost
    database: engine
    user: engine
workers:
  compose-template:
    enabled: true
  resolve-template-variables:
    enabled: true
    seed: 42
`

func TestLoadFromFile_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GENAI_URL", "http://genai.test")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://genai.test", cfg.GenAI.BaseURL)
	assert.Equal(t, "brand-content-engine", cfg.App.Name)
	assert.Equal(t, "redis", cfg.Matrix.Backend)
	assert.Equal(t, "postgres", cfg.Composition.SectionsBackend)
	assert.Equal(t, "layout_sections", cfg.Database.Elasticsearch.SectionsIndex)
	assert.Equal(t, 3000, cfg.GenAI.MaxTokens)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)

	w := GetWorkerConfig(cfg, "compose-template")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Zero(t, w.Seed)

	assert.Equal(t, uint64(42), GetWorkerConfig(cfg, "resolve-template-variables").Seed)
}

func TestLoadFromFile_Validation(t *testing.T) {
	t.Setenv("TEST_GENAI_URL", "http://genai.test")

	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"unknown matrix backend", "matrix:\n  backend: memcached\n", "matrix.backend"},
		{"unknown sections backend", "composition:\n  sections_backend: sqlite\n", "composition.sections_backend"},
		{"elasticsearch without addresses", "composition:\n  sections_backend: elasticsearch\n", "elasticsearch.addresses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, minimalConfig+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("broker address required", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, "genai:\n  base_url: http://x\n"))
		assert.ErrorContains(t, err, "camunda.broker_address")
	})
}

func TestWorkerConfigFallbacks(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"score-section": {Enabled: false}}}

	assert.False(t, IsWorkerEnabled(cfg, "score-section"))
	assert.True(t, IsWorkerEnabled(cfg, "validate-composition"))
	assert.Equal(t, 3, GetWorkerConfig(cfg, "validate-composition").MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
