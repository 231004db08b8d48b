package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/models"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient is the generation/analysis capability: submit role-tagged
// messages at a sampling temperature, receive text or an error. The
// caller is responsible for retries and for bounding latency via ctx.
type LLMClient interface {
	ChatCompletion(ctx context.Context, profile *models.LLMProfile, messages []ChatMessage, temperature float64) (string, error)
	TestConnection(ctx context.Context, profile *models.LLMProfile) (string, error)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type llmClient struct {
	httpClient *http.Client
	log        *logger.Logger
}

func NewLLMClient(log *logger.Logger) LLMClient {
	return &llmClient{
		// Capability calls can block for tens of seconds.
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        log.With("component", "llm_client"),
	}
}

// ChatCompletion calls the configured endpoint in the OpenAI-compatible
// chat-completions shape. Upstream failures come back as
// models.CapabilityError with the status and body verbatim.
func (c *llmClient) ChatCompletion(ctx context.Context, profile *models.LLMProfile, messages []ChatMessage, temperature float64) (string, error) {
	endpoint := strings.TrimRight(profile.Endpoint, "/") + "/chat/completions"

	body, err := json.Marshal(chatRequest{
		Model:       profile.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if profile.APIKey != "" {
		switch strings.ToLower(profile.Provider) {
		case "claude":
			req.Header.Set("x-api-key", profile.APIKey)
			req.Header.Set("anthropic-version", "2023-06-01")
		default:
			req.Header.Set("Authorization", "Bearer "+profile.APIKey)
		}
	}

	c.log.Debug("llm request", "endpoint", endpoint, "model", profile.Model, "temperature", temperature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.CapabilityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", models.CapabilityError{Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", models.CapabilityError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", models.CapabilityError{Err: fmt.Errorf("empty response from llm")}
	}

	return parsed.Choices[0].Message.Content, nil
}

// TestConnection sends a minimal prompt to verify the configuration.
func (c *llmClient) TestConnection(ctx context.Context, profile *models.LLMProfile) (string, error) {
	messages := []ChatMessage{{
		Role:    "user",
		Content: "Hello, respond with just 'OK' to confirm connection.",
	}}
	return c.ChatCompletion(ctx, profile, messages, 0)
}

// DefaultEndpoint returns the conventional API base for a provider;
// empty for custom providers.
func DefaultEndpoint(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "https://api.openai.com/v1"
	case "claude":
		return "https://api.anthropic.com/v1"
	case "deepseek":
		return "https://api.deepseek.com/v1"
	case "ollama":
		return "http://localhost:11434/v1"
	default:
		return ""
	}
}
