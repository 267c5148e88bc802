package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscope/voicebench/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TranslationConcurrency)
	assert.Equal(t, 3, cfg.SpeechConcurrency)
	assert.Equal(t, 2, cfg.ElevenLabsConcurrency)
	assert.Equal(t, 25*time.Second, cfg.RealtimeTimeout())
	assert.Empty(t, cfg.OutputDir)
	assert.Empty(t, cfg.Groq.APIKey, "secondary credentials have no default")
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GROQ_API_KEY", "gsk-groq")
	t.Setenv("ELEVENLABS_API_KEY", "el-key")
	t.Setenv("VOICEBENCH_OUTPUT_DIR", "reports")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-openai", cfg.OpenAI.APIKey)
	assert.Equal(t, "sk-openai", cfg.Realtime.APIKey, "the realtime endpoint shares the OpenAI credential")
	assert.Equal(t, "gsk-groq", cfg.Groq.APIKey)
	assert.Equal(t, "el-key", cfg.ElevenLabs.APIKey)
	assert.Equal(t, "reports", cfg.OutputDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicebench.yaml")
	content := `
concurrency:
  translation: 8
  speech: 6
  elevenlabs: 1
realtime:
  timeout_seconds: 10
  voice: verse
openai:
  model: gpt-4o
output:
  dir: /tmp/bench-reports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.TranslationConcurrency)
	assert.Equal(t, 6, cfg.SpeechConcurrency)
	assert.Equal(t, 1, cfg.ElevenLabsConcurrency)
	assert.Equal(t, 10*time.Second, cfg.RealtimeTimeout())
	assert.Equal(t, "verse", cfg.Realtime.Voice)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "/tmp/bench-reports", cfg.OutputDir)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not read config file")
	})

	t.Run("Zero Concurrency", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "voicebench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("concurrency:\n  speech: 0\n"), 0o644))

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "concurrency.speech")
	})

	t.Run("Zero Timeout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "voicebench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("realtime:\n  timeout_seconds: 0\n"), 0o644))

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "realtime.timeout_seconds")
	})
}
