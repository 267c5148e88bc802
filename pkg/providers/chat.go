package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/callscope/voicebench/pkg/httpx"
)

const (
	// RoleSystem is the system role for chat-completion messages.
	RoleSystem = "system"
	// RoleUser is the user role for chat-completion messages.
	RoleUser = "user"
)

const (
	defaultOpenAIChatURL = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel   = "gpt-4o-mini"

	defaultGroqChatURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel   = "llama-3.3-70b-versatile"

	// chatTimeout bounds a single completions call. Without it, a hung
	// request would hold a concurrency slot forever.
	chatTimeout = 60 * time.Second

	// chatTemperature keeps translations deterministic-ish across runs.
	chatTemperature = 0.2
)

// ChatMessage represents a single message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient is a Translator backed by an OpenAI-style chat-completions
// endpoint. Both the OpenAI and Groq adapters are instances of this type with
// different endpoints, models and identities.
type ChatClient struct {
	name       Name
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIChat returns the OpenAI chat-completion adapter. Empty url or
// model fall back to the vendor defaults.
func NewOpenAIChat(apiKey, url, model string) *ChatClient {
	return newChatClient(OpenAI, apiKey, orDefault(url, defaultOpenAIChatURL), orDefault(model, defaultOpenAIModel))
}

// NewGroqChat returns the Groq chat-completion adapter. Empty url or model
// fall back to the vendor defaults.
func NewGroqChat(apiKey, url, model string) *ChatClient {
	return newChatClient(Groq, apiKey, orDefault(url, defaultGroqChatURL), orDefault(model, defaultGroqModel))
}

func newChatClient(name Name, apiKey, url, model string) *ChatClient {
	return &ChatClient{
		name:       name,
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: chatTimeout},
	}
}

// Name returns the adapter's identity.
func (c *ChatClient) Name() Name { return c.name }

// chatRequest is the vendor request schema for the completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the subset of the vendor response schema the adapter needs.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Translate issues one chat-completion call that translates text from the
// source to the target language. Token usage is extracted opportunistically
// when the response reports it.
func (c *ChatClient) Translate(ctx context.Context, source, target, text string) (Translation, error) {
	system := fmt.Sprintf(
		"You are a professional translator for a customer support call center. "+
			"Translate the user's message from %s to %s. Respond with the translation only.",
		source, target,
	)

	requestBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: text},
		},
		Temperature: chatTemperature,
	})
	if err != nil {
		return Translation{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Bearer "+c.apiKey)

	responseBody, err := httpx.Post(ctx, c.httpClient, c.url, header, requestBody)
	if err != nil {
		return Translation{}, fmt.Errorf("%s chat completion failed: %w", c.name, err)
	}

	var response chatResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return Translation{}, fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if len(response.Choices) == 0 {
		return Translation{}, fmt.Errorf("chat response contained no choices")
	}

	return Translation{
		Text:   strings.TrimSpace(response.Choices[0].Message.Content),
		Tokens: response.Usage.TotalTokens,
	}, nil
}

// orDefault returns value, or fallback when value is empty.
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
