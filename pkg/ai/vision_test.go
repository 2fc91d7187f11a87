package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	id      ProviderID
	replies []string
	err     error
	queries []Query
}

func (p *recordingProvider) ID() ProviderID { return p.id }

func (p *recordingProvider) Query(_ context.Context, query Query) (string, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return "", p.err
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func TestVisionClientOneShotOpenAI(t *testing.T) {
	openaiProvider := &recordingProvider{id: ProviderOpenAI, replies: []string{"1"}}
	client := NewVisionClient(zerolog.Nop(), openaiProvider)

	payload := base64.StdEncoding.EncodeToString(pngBytes)
	result := client.OneShot(context.Background(), ProviderOpenAI, "2 + 2", "data:image/png;base64,"+payload)

	require.True(t, result.OK())
	require.Equal(t, "1", result.Token)
	require.Equal(t, ProviderOpenAI, result.Provider)
	require.Equal(t, ModeOneShot, result.Mode)

	require.Len(t, openaiProvider.queries, 1)
	query := openaiProvider.queries[0]
	require.Equal(t, "For the math question '2 + 2', analyze the handwritten answer in the image. If the answer is right, return 1, otherwise return 0. Return no other characters.", query.Text)
	require.Equal(t, DefaultMaxTokens, query.MaxTokens)
	require.Empty(t, query.System)
	require.NotNil(t, query.Image)
	require.Equal(t, payload, query.Image.Data)
}

func TestVisionClientOneShotAnthropicCarriesSystemPrompt(t *testing.T) {
	anthropicProvider := &recordingProvider{id: ProviderAnthropic, replies: []string{"0"}}
	client := NewVisionClient(zerolog.Nop(), anthropicProvider)

	result := client.OneShot(context.Background(), ProviderAnthropic, "5 x 3", base64.StdEncoding.EncodeToString(pngBytes))
	require.True(t, result.OK())
	require.Equal(t, "0", result.Token)

	query := anthropicProvider.queries[0]
	require.Contains(t, query.System, "Your response must be only 0 or 1")
	require.Equal(t, "image/png", query.Image.MediaType)
}

func TestVisionClientOneShotUnknownProvider(t *testing.T) {
	client := NewVisionClient(zerolog.Nop())

	result := client.OneShot(context.Background(), ProviderAnthropic, "1 + 1", "")
	require.False(t, result.OK())

	var providerErr *ProviderError
	require.True(t, errors.As(result.Err, &providerErr))
	require.Equal(t, ProviderAnthropic, providerErr.Provider)
}

func TestVisionClientAnalysisThenDecision(t *testing.T) {
	analyst := &recordingProvider{id: ProviderAnthropic, replies: []string{"The answer 4 is correct."}}
	judge := &recordingProvider{id: ProviderOpenAI, replies: []string{"1"}}
	client := NewVisionClient(zerolog.Nop(), analyst, judge)

	payload := base64.StdEncoding.EncodeToString(pngBytes)
	result := client.AnalysisThenDecision(context.Background(), "2 + 2", "data:image/png;base64,"+payload)

	require.True(t, result.OK())
	require.Equal(t, "1", result.Token)
	require.Equal(t, ModeAnalysisThenDecision, result.Mode)

	require.Len(t, analyst.queries, 1)
	require.Equal(t, 1000, analyst.queries[0].MaxTokens)
	require.Empty(t, analyst.queries[0].System)
	require.Equal(t, payload, analyst.queries[0].Image.Data)
	require.Contains(t, analyst.queries[0].Text, "tell me whether the answer in the image is correct or incorrect")

	require.Len(t, judge.queries, 1)
	require.Nil(t, judge.queries[0].Image)
	require.Equal(t, DefaultMaxTokens, judge.queries[0].MaxTokens)
	require.Contains(t, judge.queries[0].Text, "He has marked it as follows: The answer 4 is correct..")
}

func TestVisionClientAnalysisFailureSkipsDecision(t *testing.T) {
	analyst := &recordingProvider{id: ProviderAnthropic, err: &ProviderError{Provider: ProviderAnthropic, Err: errors.New("overloaded")}}
	judge := &recordingProvider{id: ProviderOpenAI, replies: []string{"1"}}
	client := NewVisionClient(zerolog.Nop(), analyst, judge)

	result := client.AnalysisThenDecision(context.Background(), "2 + 2", "abc")
	require.False(t, result.OK())
	require.Equal(t, ProviderAnthropic, result.Provider)
	require.Empty(t, judge.queries)
}
