package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTP.Address)
	require.Equal(t, 0.45, cfg.Bloom.FallbackIndex)
	require.Equal(t, "MODIS/061/MOD13Q1", cfg.EarthEngine.Collection)
	require.Equal(t, []string{"brown", "beige", "yellow", "green"}, cfg.EarthEngine.Palette)
	require.Equal(t, int64(1_000_000), cfg.EarthEngine.MaxPixels)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
	require.Equal(t, 120, cfg.HTTP.RateLimit.RequestsPerMinute)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
earthEngine:
  project: "bloom-prod"
  timeout: 5s
forecast:
  modelPath: "/models/a.json"
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("BLOOM_MODEL_PATH", "s3://models/bloom.json")
	t.Setenv("GEE_SERVICE_ACCOUNT", "svc@bloom.iam.gserviceaccount.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, "bloom-prod", cfg.EarthEngine.Project)
	require.Equal(t, 5*time.Second, cfg.EarthEngine.Timeout)
	require.Equal(t, "s3://models/bloom.json", cfg.Forecast.ModelPath)
	require.Equal(t, "svc@bloom.iam.gserviceaccount.com", cfg.EarthEngine.ServiceAccount)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("BLOOM_REFERENCE_PATH=/data/ref.xlsx\n"), 0o600))
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", envPath)
	t.Setenv("BLOOM_REFERENCE_PATH", "")
	require.NoError(t, os.Unsetenv("BLOOM_REFERENCE_PATH"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/data/ref.xlsx", cfg.Chatbot.ReferencePath)
	require.NoError(t, os.Unsetenv("BLOOM_REFERENCE_PATH"))
}

func TestValidateRejectsSemanticWithoutIndex(t *testing.T) {
	cfg := defaultConfig()
	cfg.Chatbot.Semantic.Enabled = true
	require.Error(t, cfg.Validate())

	cfg.Chatbot.Semantic.IndexPath = "data/index.json"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsRedisWithoutAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Redis.Enabled = true
	require.Error(t, cfg.Validate())
}
