package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LocalClient implements Client against an OpenAI-compatible chat
// completions endpoint, typically a local inference server.
type LocalClient struct {
	config     *Config
	httpClient *http.Client
}

// NewLocalClient creates a client for the server named in config.BaseURL.
func NewLocalClient(config *Config) *LocalClient {
	return &LocalClient{
		config:     config,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete generates text content using the specified model tier
func (c *LocalClient) Complete(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.chat(ctx, prompt, tier, nil)
}

// CompleteJSON generates JSON content using the specified model tier
func (c *LocalClient) CompleteJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.chat(ctx, prompt, tier, &respFormat{Type: "json_object"})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *LocalClient) chat(ctx context.Context, prompt string, tier ModelTier, format *respFormat) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	body, err := json.Marshal(chatRequest{
		Model:          modelName,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.1,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := c.config.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call local LLM server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local LLM server returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("local LLM server error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Model returns the model name for a tier
func (c *LocalClient) Model(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *LocalClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
