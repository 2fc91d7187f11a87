package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OpenAIProvider queries the OpenAI chat completion API with inline image content.
type OpenAIProvider struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIProvider builds a provider using the supplied configuration.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/mathfluent-go-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_provider").Logger(),
	}, nil
}

// ID implements Provider.
func (p *OpenAIProvider) ID() ProviderID {
	return ProviderOpenAI
}

// Query sends the text and optional image as one user message and returns the trimmed reply.
func (p *OpenAIProvider) Query(parent context.Context, query Query) (string, error) {
	ctx, span := p.tracer.Start(parent, "openai.query", trace.WithAttributes(
		attribute.String("model", p.cfg.Model),
		attribute.Bool("image", query.Image != nil),
	))
	defer span.End()

	maxTokens := query.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	parts := make([]openai.ChatMessagePart, 0, 2)
	if query.Image != nil {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    query.Image.DataURL(),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: query.Text,
	})

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if query.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: query.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:         openai.ChatMessageRoleUser,
		MultiContent: parts,
	})

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.cfg.Model,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	observeQuery(ProviderOpenAI, start)
	if err != nil {
		p.logger.Error().Err(err).Msg("openai vision query failed")
		return "", failQuery(ProviderOpenAI, span, err)
	}

	if len(resp.Choices) == 0 {
		return "", failQuery(ProviderOpenAI, span, ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", failQuery(ProviderOpenAI, span, ErrEmptyResponse)
	}

	return content, nil
}
