package vision

import (
	"context"
	"errors"
	"fmt"

	"visionanalyzer/internal/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider отправляет текст и картинку в Chat Completions (GPT-4o).
type OpenAIProvider struct {
	cfg    config.OpenAIConfig
	client openai.Client
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider создаёт провайдера GPT-4o. Дополнительные опции
// (напр. option.WithBaseURL) используются в тестах для подмены транспорта.
func NewOpenAIProvider(cfg config.OpenAIConfig, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &OpenAIProvider{
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}
}

func (p *OpenAIProvider) Name() string { return "GPT-4o" }

func (p *OpenAIProvider) Available() bool { return p.cfg.APIKey != "" }

func (p *OpenAIProvider) Analyze(ctx context.Context, img Image, prompt string) (string, error) {
	if !p.Available() {
		return "", errors.New("OpenAI API key not set")
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    img.DataURL(),
					Detail: "high",
				}),
			}),
		},
		MaxTokens:   openai.Int(p.cfg.MaxTokens),
		Temperature: openai.Float(p.cfg.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("GPT-4o request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("GPT-4o returned an empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
