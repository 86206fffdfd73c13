// Package textgen talks to the text-generation service behind the room
// description generator and the guest assistant.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hotel-booking-backend/config"
)

// ErrDisabled is returned when no service URL is configured.
var ErrDisabled = errors.New("text generation is not configured")

// maxResponseBytes caps how much of an upstream answer is read.
const maxResponseBytes = 1 << 20

// Client sends prompts to an HTTP text-generation endpoint. The endpoint
// takes {"model", "prompt"} and answers {"text"}.
type Client struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewClient(cfg config.TextGenConfig) *Client {
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type request struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type response struct {
	Text string `json:"text"`
}

// Generate returns the service's completion of prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.url == "" {
		return "", ErrDisabled
	}

	jsonBody, err := json.Marshal(request{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxResponseBytes {
		return "", fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
