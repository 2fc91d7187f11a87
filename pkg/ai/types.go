package ai

import (
	"context"
	"errors"
	"fmt"
)

// ProviderID identifies one of the supported vision model providers.
type ProviderID string

const (
	// ProviderOpenAI is the OpenAI chat completion provider.
	ProviderOpenAI ProviderID = "openai"
	// ProviderAnthropic is the Anthropic messages provider.
	ProviderAnthropic ProviderID = "anthropic"
)

// ParseProviderID validates a configured provider name.
func ParseProviderID(value string) (ProviderID, error) {
	switch id := ProviderID(value); id {
	case ProviderOpenAI, ProviderAnthropic:
		return id, nil
	default:
		return "", fmt.Errorf("unknown ai provider %q", value)
	}
}

// Mode names the grading strategy used for a request.
type Mode string

const (
	// ModeOneShot asks a single provider for a 1/0 token.
	ModeOneShot Mode = "one_shot"
	// ModeAnalysisThenDecision asks Anthropic for an analysis and OpenAI to distill it.
	ModeAnalysisThenDecision Mode = "analysis_then_decision"
)

// ParseMode validates a configured grading mode.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModeOneShot, ModeAnalysisThenDecision:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown grading mode %q", value)
	}
}

// DefaultMaxTokens bounds single-token grading answers.
const DefaultMaxTokens = 10

// Query is the provider-agnostic request shape.
type Query struct {
	Text      string
	Image     *Image
	System    string
	MaxTokens int
}

// Provider is implemented by every vision model backend.
type Provider interface {
	ID() ProviderID
	Query(ctx context.Context, query Query) (string, error)
}

// ErrEmptyResponse indicates the provider answered without any text content.
var ErrEmptyResponse = errors.New("provider returned no content")

// ProviderError wraps a failure reported by a provider call.
type ProviderError struct {
	Provider ProviderID
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a grading query: either a token or a failure reason.
type Result struct {
	Provider ProviderID
	Mode     Mode
	Token    string
	Err      error
}

// OK reports whether the query produced a token.
func (r Result) OK() bool {
	return r.Err == nil
}

// IsCorrect reports whether the token is exactly "1".
func IsCorrect(token string) bool {
	return token == "1"
}
