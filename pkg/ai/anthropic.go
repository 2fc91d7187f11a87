package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultAnthropicModel  = "claude-3-7-sonnet-20250219"
	defaultAnthropicSystem = "Be very concise"
)

// AnthropicConfig holds settings for the Anthropic messages provider.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// AnthropicProvider queries the Anthropic messages API. Instructions travel in the system prompt
// and images are sent as base64 blocks with an explicit media type.
type AnthropicProvider struct {
	client anthropic.Client
	cfg    AnthropicConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewAnthropicProvider constructs a provider backed by the Anthropic SDK.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultAnthropicModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/mathfluent-go-api/pkg/ai/anthropic"),
		logger: cfg.Logger.With().Str("component", "anthropic_provider").Logger(),
	}, nil
}

// ID implements Provider.
func (p *AnthropicProvider) ID() ProviderID {
	return ProviderAnthropic
}

// Query sends the text and optional image and returns the first trimmed text block.
func (p *AnthropicProvider) Query(parent context.Context, query Query) (string, error) {
	ctx, span := p.tracer.Start(parent, "anthropic.query", trace.WithAttributes(
		attribute.String("model", p.cfg.Model),
		attribute.Bool("image", query.Image != nil),
	))
	defer span.End()

	maxTokens := query.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	system := query.System
	if system == "" {
		system = defaultAnthropicSystem
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
	if query.Image != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(query.Image.MediaType, query.Image.Data))
	}
	blocks = append(blocks, anthropic.NewTextBlock(query.Text))

	start := time.Now()
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	observeQuery(ProviderAnthropic, start)
	if err != nil {
		p.logger.Error().Err(err).Msg("anthropic vision query failed")
		return "", failQuery(ProviderAnthropic, span, err)
	}

	for _, block := range message.Content {
		if block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			return text, nil
		}
		break
	}

	return "", failQuery(ProviderAnthropic, span, ErrEmptyResponse)
}
