package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/callscope/voicebench/pkg/httpx"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	defaultElevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultElevenLabsModel   = "eleven_turbo_v2_5"

	// elevenLabsTimeout bounds a single synthesis call, for the same reason
	// as chatTimeout: a hung call must not starve a limiter slot forever.
	elevenLabsTimeout = 60 * time.Second
)

// ElevenLabsClient is a Synthesizer backed by the ElevenLabs REST synthesis
// endpoint: one POST per call, raw binary audio in the response body.
type ElevenLabsClient struct {
	baseURL    string
	apiKey     string
	voiceID    string
	model      string
	httpClient *http.Client
}

// NewElevenLabs returns the REST speech adapter. Empty baseURL, voiceID or
// model fall back to the vendor defaults.
func NewElevenLabs(apiKey, baseURL, voiceID, model string) *ElevenLabsClient {
	return &ElevenLabsClient{
		baseURL:    orDefault(baseURL, defaultElevenLabsBaseURL),
		apiKey:     apiKey,
		voiceID:    orDefault(voiceID, defaultElevenLabsVoiceID),
		model:      orDefault(model, defaultElevenLabsModel),
		httpClient: &http.Client{Timeout: elevenLabsTimeout},
	}
}

// Name returns the adapter's identity.
func (c *ElevenLabsClient) Name() Name { return ElevenLabs }

// synthesizeRequest is the vendor request schema for the synthesis endpoint.
type synthesizeRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Synthesize issues one synthesis call and returns the raw PCM payload.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, language, text string) ([]byte, error) {
	requestBody, err := json.Marshal(synthesizeRequest{
		Text:         text,
		ModelID:      c.model,
		LanguageCode: language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	// PCM output keeps the byte counts comparable with the streaming provider.
	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=pcm_16000", c.baseURL, c.voiceID)

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("xi-api-key", c.apiKey)

	audio, err := httpx.Post(ctx, c.httpClient, url, header, requestBody)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesis failed: %w", err)
	}
	return audio, nil
}
