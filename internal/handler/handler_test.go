package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mathfluent-go-api/internal/config"
	"github.com/noah-isme/mathfluent-go-api/internal/dataset"
	"github.com/noah-isme/mathfluent-go-api/internal/handler"
	"github.com/noah-isme/mathfluent-go-api/internal/middleware"
	"github.com/noah-isme/mathfluent-go-api/internal/router"
	"github.com/noah-isme/mathfluent-go-api/internal/service"
	"github.com/noah-isme/mathfluent-go-api/internal/utils"
	"github.com/noah-isme/mathfluent-go-api/pkg/ai"
)

type scriptedProvider struct {
	id     ai.ProviderID
	token  string
	err    error
	called int
	last   ai.Query
}

func (p *scriptedProvider) ID() ai.ProviderID { return p.id }

func (p *scriptedProvider) Query(_ context.Context, query ai.Query) (string, error) {
	p.called++
	p.last = query
	return p.token, p.err
}

type recordingSink struct {
	batches []dataset.Batch
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Push(_ context.Context, batch dataset.Batch) error {
	s.batches = append(s.batches, batch)
	return s.err
}

type testApp struct {
	app       *fiber.App
	openai    *scriptedProvider
	anthropic *scriptedProvider
	sink      *recordingSink
}

func setupApp(t *testing.T, pushEnabled bool) *testApp {
	t.Helper()

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())

	openaiProvider := &scriptedProvider{id: ai.ProviderOpenAI}
	anthropicProvider := &scriptedProvider{id: ai.ProviderAnthropic}
	sink := &recordingSink{}

	vision := ai.NewVisionClient(logger, openaiProvider, anthropicProvider)
	gradingService := service.NewGradingService(vision, service.GradingConfig{
		Primary:   ai.ProviderOpenAI,
		Secondary: ai.ProviderAnthropic,
		Mode:      ai.ModeOneShot,
	}, validate, logger)
	resultsService := service.NewResultsService(sink, pushEnabled, validate, logger)

	cfg := config.Config{AppName: "MathFluent API", AppEnv: "test", RateLimitMax: 1000, RateLimitWindow: time.Minute}
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GradingHandler: handler.NewGradingHandler(gradingService, logger),
		ResultsHandler: handler.NewResultsHandler(resultsService, logger),
	})

	return &testApp{app: app, openai: openaiProvider, anthropic: anthropicProvider, sink: sink}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

const pngDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestWelcome(t *testing.T) {
	ta := setupApp(t, false)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeResponse(t, resp, &body)
	require.Equal(t, "Welcome to MathFluent API", body["message"])
}

func TestHealthCheck(t *testing.T) {
	ta := setupApp(t, false)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "ok", payload.Data.Status)
	require.Equal(t, "test", payload.Data.Environment)
	require.WithinDuration(t, time.Now().UTC(), payload.Data.Timestamp, 2*time.Second)
}

func TestCheckAnswerPrimaryCorrect(t *testing.T) {
	ta := setupApp(t, false)
	ta.openai.token = "1"

	resp := postJSON(t, ta.app, "/check-answer", map[string]string{"image": pngDataURL, "question": "2 + 2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeResponse(t, resp, &body)
	require.Equal(t, map[string]bool{"is_correct": true}, body)
	require.Equal(t, 1, ta.openai.called)
	require.Zero(t, ta.anthropic.called)
}

func TestCheckAnswerFallsBackToSecondary(t *testing.T) {
	ta := setupApp(t, false)
	ta.openai.err = &ai.ProviderError{Provider: ai.ProviderOpenAI, Err: errors.New("rate limited")}
	ta.anthropic.token = "0"

	resp := postJSON(t, ta.app, "/check-answer", map[string]string{"image": pngDataURL, "question": "2 + 2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeResponse(t, resp, &body)
	require.False(t, body["is_correct"])
	require.Equal(t, 1, ta.anthropic.called)

	// Both providers see the same normalized payload.
	require.Equal(t, ta.openai.last.Image, ta.anthropic.last.Image)
	require.Equal(t, "image/png", ta.anthropic.last.Image.MediaType)
}

func TestCheckAnswerBothProvidersFailIsOpaque(t *testing.T) {
	ta := setupApp(t, false)
	ta.openai.err = &ai.ProviderError{Provider: ai.ProviderOpenAI, Err: errors.New("secret-openai-detail")}
	ta.anthropic.err = &ai.ProviderError{Provider: ai.ProviderAnthropic, Err: errors.New("secret-anthropic-detail")}

	resp := postJSON(t, ta.app, "/check-answer", map[string]string{"image": pngDataURL, "question": "2 + 2"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret")
	require.NotContains(t, string(raw), "is_correct")

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.False(t, body.Success)
	require.Equal(t, "failed to check answer", body.Message)
}

func TestCheckAnswerValidation(t *testing.T) {
	ta := setupApp(t, false)

	resp := postJSON(t, ta.app, "/check-answer", map[string]string{"question": "2 + 2"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, ta.openai.called)

	req := httptest.NewRequest(http.MethodPost, "/check-answer", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitResultsDisabledSkipsSink(t *testing.T) {
	ta := setupApp(t, false)

	resp := postJSON(t, ta.app, "/submit-results", map[string]interface{}{
		"questions":  []string{"2+2"},
		"answers":    []string{"4"},
		"is_correct": []bool{true},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body["message"])
	require.Empty(t, ta.sink.batches)
}

func TestSubmitResultsForwardsBatch(t *testing.T) {
	ta := setupApp(t, true)

	payload, err := json.Marshal(map[string]interface{}{
		"questions":  []string{"2+2"},
		"answers":    []string{"4"},
		"is_correct": []bool{true},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/submit-results", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CorrelationHeader, "corr-results")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeResponse(t, resp, &body)
	require.Equal(t, "Results submitted successfully", body["message"])

	require.Len(t, ta.sink.batches, 1)
	batch := ta.sink.batches[0]
	require.Equal(t, []string{"2+2"}, batch.Questions)
	require.Equal(t, []string{"4"}, batch.Answers)
	require.Equal(t, []bool{true}, batch.IsCorrect)
	require.Equal(t, "corr-results", batch.CorrelationID)
}

func TestSubmitResultsSinkFailureIsOpaque(t *testing.T) {
	ta := setupApp(t, true)
	ta.sink.err = errors.New("hub token expired: hf_secret")

	resp := postJSON(t, ta.app, "/submit-results", map[string]interface{}{
		"questions":  []string{"2+2"},
		"answers":    []string{"4"},
		"is_correct": []bool{true},
	})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "hf_secret")
	require.Contains(t, string(raw), "failed to submit results")
}

func TestCheckAnswerCORSPreflight(t *testing.T) {
	ta := setupApp(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/check-answer", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	ta := setupApp(t, false)
	ta.openai.token = "1"

	resp := postJSON(t, ta.app, "/check-answer", map[string]string{"image": pngDataURL, "question": "2 + 2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "mathfluent_http_requests_total")
	require.Contains(t, string(raw), `mathfluent_grading_verdicts_total{verdict="correct"}`)
}
