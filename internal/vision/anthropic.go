package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"visionanalyzer/internal/config"
)

const (
	anthropicEndpoint = "https://api.anthropic.com"
	anthropicVersion  = "2023-06-01"
)

// AnthropicProvider отправляет картинку и промпт в Messages API (Claude).
// SDK не используется: конверт собирается вручную поверх net/http.
type AnthropicProvider struct {
	cfg     config.AnthropicConfig
	baseURL string // перекрывается в тестах
	httpc   *http.Client
}

var _ Provider = (*AnthropicProvider)(nil)

func NewAnthropicProvider(cfg config.AnthropicConfig) *AnthropicProvider {
	return &AnthropicProvider{
		cfg:     cfg,
		baseURL: anthropicEndpoint,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *AnthropicProvider) Name() string { return "Claude" }

func (p *AnthropicProvider) Available() bool { return p.cfg.APIKey != "" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int64              `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string          `json:"role"`
	Content []anthropicPart `json:"content"`
}

// anthropicPart блок контента: либо image с base64-источником, либо text.
type anthropicPart struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Analyze(ctx context.Context, img Image, prompt string) (string, error) {
	if !p.Available() {
		return "", errors.New("Anthropic API key not set")
	}

	// Порядок блоков фиксирован: сначала картинка, затем текст
	body := anthropicRequest{
		Model:     p.cfg.Model,
		MaxTokens: p.cfg.MaxTokens,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicPart{
					{
						Type: "image",
						Source: &anthropicSource{
							Type:      "base64",
							MediaType: img.MediaType,
							Data:      img.Base64(),
						},
					},
					{Type: "text", Text: prompt},
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("Claude request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("Claude request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("Claude request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("Claude returned malformed response: %w", err)
	}
	if len(out.Content) == 0 {
		return "", errors.New("Claude returned an empty response")
	}
	return out.Content[0].Text, nil
}
