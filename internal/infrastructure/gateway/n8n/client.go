// Package n8n provides the recipe generation gateway backed by an n8n
// chat-trigger webhook workflow.
package n8n

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/internal/ports/outbound"
)

// Client implements the RecipeGenerator interface against an n8n webhook
type Client struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewClient creates a new n8n webhook client
func NewClient(cfg *config.Config, logger *zap.Logger) outbound.RecipeGenerator {
	timeout := cfg.Gateway.Timeout
	if timeout <= 0 {
		timeout = 360 * time.Second
	}

	logger.Info("Recipe generation gateway initialized",
		zap.String("webhook_url", cfg.Gateway.WebhookURL),
		zap.Duration("timeout", timeout))

	return &Client{
		webhookURL: cfg.Gateway.WebhookURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("n8n-client"),
	}
}

// chatMessage matches the n8n chat-trigger input format. Each request
// carries a fresh correlation ID so workflow runs stay independent.
type chatMessage struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
	ChatInput string `json:"chatInput"`
}

// Generate sends the query to the webhook and returns the generated
// recipe text. Any transport failure, non-success status, or payload the
// workflow shape does not match is reported as an error; the caller
// decides how to surface it. Requests are never retried here.
func (c *Client) Generate(ctx context.Context, query string) (string, error) {
	payload := []chatMessage{{
		SessionID: correlationID(),
		Action:    "sendMessage",
		ChatInput: query,
	}}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(body))
	}

	text, err := extractOutput(body)
	if err != nil {
		return "", err
	}

	text = sanitizeHTML(text)
	if text == "" {
		return "", fmt.Errorf("webhook returned an empty recipe")
	}

	c.logger.Debug("Recipe generated via webhook",
		zap.Duration("duration", time.Since(start)),
		zap.Int("length", len(text)))

	return text, nil
}

// extractOutput pulls the generated text out of the webhook response.
// n8n workflows answer in several shapes depending on the final node:
// an array of items with an "output" field, items nesting it under
// "json", or a bare object. Unknown shapes fall back to their JSON
// rendering rather than failing the whole request.
func extractOutput(body []byte) (string, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch v := data.(type) {
	case []interface{}:
		if len(v) == 0 {
			return "", fmt.Errorf("webhook returned no items")
		}
		return itemOutput(v[0]), nil
	case map[string]interface{}:
		if out, ok := v["output"].(string); ok {
			return out, nil
		}
		return stringify(v), nil
	default:
		return stringify(data), nil
	}
}

func itemOutput(item interface{}) string {
	m, ok := item.(map[string]interface{})
	if !ok {
		return stringify(item)
	}

	if out, ok := m["output"].(string); ok {
		return out
	}

	if j, ok := m["json"].(map[string]interface{}); ok {
		if out, exists := j["output"]; exists {
			return stringify(out)
		}
	}

	return stringify(m)
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// correlationID returns a fresh 32-character hex workflow session ID
func correlationID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
