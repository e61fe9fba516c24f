package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"visionanalyzer/internal/config"

	"google.golang.org/genai"
)

// GeminiProvider отправляет [промпт, картинка] в Gemini через официальный SDK.
type GeminiProvider struct {
	cfg      config.GeminiConfig
	httpOpts *genai.HTTPOptions // перекрывается в тестах
}

var _ Provider = (*GeminiProvider)(nil)

func NewGeminiProvider(cfg config.GeminiConfig) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string { return "Gemini" }

func (p *GeminiProvider) Available() bool { return p.cfg.APIKey != "" }

func (p *GeminiProvider) Analyze(ctx context.Context, img Image, prompt string) (string, error) {
	if !p.Available() {
		return "", errors.New("Google API key not set")
	}

	// Клиент лёгкий, создаём на каждый вызов: состояние между запросами не разделяется
	clientConfig := &genai.ClientConfig{APIKey: p.cfg.APIKey}
	if p.httpOpts != nil {
		clientConfig.HTTPOptions = *p.httpOpts
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(img.Data, img.MediaType),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("Gemini returned an empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("Gemini returned an empty response")
	}
	return sb.String(), nil
}
