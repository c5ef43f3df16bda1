package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LOCAL_ONLY", "PREDICTION_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "REMOTE_TIMEOUT", "MAX_IMAGE_BYTES", "LOCAL_CLASSIFIER", "DOWNLOAD_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxImageBytes)
	assert.False(t, cfg.RemoteConfigured())
	assert.False(t, cfg.LocalOnly)
	assert.Equal(t, 30*time.Second, cfg.DownloadTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLocalOnly(t *testing.T) {
	t.Setenv("LOCAL_ONLY", "true")
	assert.True(t, Load().LocalOnly)

	t.Setenv("LOCAL_ONLY", "nope")
	assert.False(t, Load().LocalOnly)
}

func TestWriteEnvFileLocalOnlyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)
	require.NoError(t, WriteEnvFile(path, map[string]string{"LOCAL_ONLY": "true"}))

	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "true", values["LOCAL_ONLY"])
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PREDICTION_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REMOTE_TIMEOUT", "5s")
	t.Setenv("LOCAL_TIMEOUT", "12")
	t.Setenv("MAX_IMAGE_BYTES", "not a number")

	cfg := Load()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.True(t, cfg.RemoteConfigured())
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 12*time.Second, cfg.LocalTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxImageBytes)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Provider = "anthropic"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.LocalClassifier = "tflite"
	assert.Error(t, cfg.Validate())
}

func TestWriteEnvFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nOPENAI_API_KEY=old\n"), 0600))

	require.NoError(t, WriteEnvFile(path, map[string]string{"OPENAI_API_KEY": "sk-proj-Ab12_cd-34"}))

	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", values["LOG_LEVEL"])
	assert.Equal(t, "sk-proj-Ab12_cd-34", values["OPENAI_API_KEY"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteEnvFileCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)
	require.NoError(t, WriteEnvFile(path, map[string]string{"PREDICTION_PROVIDER": "gemini"}))

	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", values["PREDICTION_PROVIDER"])
}
