// Package config loads the harness configuration: provider credentials and
// endpoints, the concurrency-pool sizes, and the report output directory.
//
// Configuration is read exactly once at startup, from an optional YAML file
// merged over environment variables and defaults. Credentials deliberately
// have no defaults: a missing credential for a secondary provider means that
// provider is skipped for the run, and a missing credential for a primary
// provider fails its calls individually without stopping the harness.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	// Default pool sizes: one for the translation scenario, one shared by
	// the speech and pipeline scenarios, and a narrower ceiling for the
	// rate-sensitive ElevenLabs account.
	defaultTranslationConcurrency = 4
	defaultSpeechConcurrency      = 3
	defaultElevenLabsConcurrency  = 2

	// defaultRealtimeTimeoutSeconds bounds one streaming synthesis session.
	defaultRealtimeTimeoutSeconds = 25
)

// Provider holds the connection settings of one vendor endpoint. Fields that
// a given vendor does not use stay empty.
type Provider struct {
	APIKey string
	URL    string
	Model  string
	Voice  string
}

// Config is the harness configuration.
type Config struct {
	OpenAI     Provider
	Groq       Provider
	Realtime   Provider
	ElevenLabs Provider

	TranslationConcurrency int
	SpeechConcurrency      int
	ElevenLabsConcurrency  int
	RealtimeTimeoutSeconds int

	// OutputDir is where the JSON report lands; empty disables the report.
	OutputDir string
}

// RealtimeTimeout returns the streaming-session deadline as a duration.
func (c Config) RealtimeTimeout() time.Duration {
	return time.Duration(c.RealtimeTimeoutSeconds) * time.Second
}

// Load reads the configuration, merging the YAML file at path (when not
// empty) over environment variables and defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("concurrency.translation", defaultTranslationConcurrency)
	v.SetDefault("concurrency.speech", defaultSpeechConcurrency)
	v.SetDefault("concurrency.elevenlabs", defaultElevenLabsConcurrency)
	v.SetDefault("realtime.timeout_seconds", defaultRealtimeTimeoutSeconds)

	// Credentials come from the vendors' conventional environment variables.
	// The realtime endpoint shares the OpenAI account credential.
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("realtime.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	_ = v.BindEnv("output.dir", "VOICEBENCH_OUTPUT_DIR")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
	}

	cfg := Config{
		OpenAI: Provider{
			APIKey: v.GetString("openai.api_key"),
			URL:    v.GetString("openai.url"),
			Model:  v.GetString("openai.model"),
		},
		Groq: Provider{
			APIKey: v.GetString("groq.api_key"),
			URL:    v.GetString("groq.url"),
			Model:  v.GetString("groq.model"),
		},
		Realtime: Provider{
			APIKey: v.GetString("realtime.api_key"),
			URL:    v.GetString("realtime.url"),
			Voice:  v.GetString("realtime.voice"),
		},
		ElevenLabs: Provider{
			APIKey: v.GetString("elevenlabs.api_key"),
			URL:    v.GetString("elevenlabs.url"),
			Model:  v.GetString("elevenlabs.model"),
			Voice:  v.GetString("elevenlabs.voice"),
		},
		TranslationConcurrency: v.GetInt("concurrency.translation"),
		SpeechConcurrency:      v.GetInt("concurrency.speech"),
		ElevenLabsConcurrency:  v.GetInt("concurrency.elevenlabs"),
		RealtimeTimeoutSeconds: v.GetInt("realtime.timeout_seconds"),
		OutputDir:              v.GetString("output.dir"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate rejects configurations the limiters cannot honor.
func (c Config) validate() error {
	if c.TranslationConcurrency < 1 {
		return fmt.Errorf("concurrency.translation must be at least 1, got %d", c.TranslationConcurrency)
	}
	if c.SpeechConcurrency < 1 {
		return fmt.Errorf("concurrency.speech must be at least 1, got %d", c.SpeechConcurrency)
	}
	if c.ElevenLabsConcurrency < 1 {
		return fmt.Errorf("concurrency.elevenlabs must be at least 1, got %d", c.ElevenLabsConcurrency)
	}
	if c.RealtimeTimeoutSeconds < 1 {
		return fmt.Errorf("realtime.timeout_seconds must be at least 1, got %d", c.RealtimeTimeoutSeconds)
	}
	return nil
}
