// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cerebras calls the Cerebras chat-completions API for
// single-shot text generation.
package cerebras

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/prospect-engine/internal/httputil"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

// apiURL is the Cerebras chat-completions endpoint. Declared as a var
// so tests can substitute an httptest server.
var apiURL = "https://api.cerebras.ai/v1/chat/completions"

const defaultModel = "llama-4-scout-17b-16e-instruct"

// Client is a concurrency-safe handle on the Cerebras API.
type Client struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewClient builds a Cerebras client from config.
func NewClient(cfg types.AIConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Generate sends a single-user-message completion request and returns
// the generated text. A temperature < 0 falls back to the configured
// default (0.2 when unset).
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if temperature < 0 {
		temperature = c.cfg.Temperature
		if temperature == 0 {
			temperature = 0.2
		}
	}

	reqBody := chatRequest{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("Cerebras API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Cerebras API returned HTTP %d: %s", resp.StatusCode, string(msg))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing Cerebras response: %w", err)
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("Cerebras API returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// Cerebras chat-completions JSON structures.

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
