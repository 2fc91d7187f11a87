package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// VisionClient runs grading prompts against the registered providers.
type VisionClient struct {
	providers map[ProviderID]Provider
	logger    zerolog.Logger
}

// NewVisionClient registers the given providers by their identifier.
func NewVisionClient(logger zerolog.Logger, providers ...Provider) *VisionClient {
	registry := make(map[ProviderID]Provider, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		registry[provider.ID()] = provider
	}

	return &VisionClient{
		providers: registry,
		logger:    logger.With().Str("component", "vision_client").Logger(),
	}
}

// Has reports whether a provider with the given identifier is registered.
func (c *VisionClient) Has(id ProviderID) bool {
	_, ok := c.providers[id]
	return ok
}

// OneShot asks a single provider for a 1/0 verdict on the handwritten answer.
func (c *VisionClient) OneShot(ctx context.Context, id ProviderID, question, image string) Result {
	result := Result{Provider: id, Mode: ModeOneShot}

	provider, err := c.provider(id)
	if err != nil {
		result.Err = err
		return result
	}

	c.logger.Info().Str("provider", string(id)).Msg("querying vision model with one-shot prompt")
	result.Token, result.Err = provider.Query(ctx, Query{
		Text:      oneShotPrompt(question),
		Image:     NormalizeImage(image),
		System:    oneShotSystemPrompts[id],
		MaxTokens: DefaultMaxTokens,
	})
	return result
}

// AnalysisThenDecision asks Anthropic for a free-text judgement and has OpenAI distill it to 1/0.
func (c *VisionClient) AnalysisThenDecision(ctx context.Context, question, image string) Result {
	result := Result{Provider: ProviderOpenAI, Mode: ModeAnalysisThenDecision}

	analyst, err := c.provider(ProviderAnthropic)
	if err != nil {
		result.Err = err
		return result
	}
	judge, err := c.provider(ProviderOpenAI)
	if err != nil {
		result.Err = err
		return result
	}

	c.logger.Info().Msg("querying anthropic for detailed analysis")
	analysis, err := analyst.Query(ctx, Query{
		Text:      analysisPrompt(question),
		Image:     NormalizeImage(image),
		MaxTokens: analysisMaxTokens,
	})
	if err != nil {
		result.Provider = ProviderAnthropic
		result.Err = err
		return result
	}
	c.logger.Info().Str("analysis", analysis).Msg("anthropic analysis received")

	result.Token, result.Err = judge.Query(ctx, Query{
		Text:      decisionPrompt(analysis),
		MaxTokens: DefaultMaxTokens,
	})
	return result
}

func (c *VisionClient) provider(id ProviderID) (Provider, error) {
	provider, ok := c.providers[id]
	if !ok {
		return nil, &ProviderError{Provider: id, Err: fmt.Errorf("provider not configured")}
	}
	return provider, nil
}
