package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/mathfluent-go-api/pkg/ai"
)

// Dataset sink kinds recognised by Load.
const (
	SinkLog        = "log"
	SinkPostgres   = "postgres"
	SinkRedis      = "redis"
	SinkNATS       = "nats"
	SinkCloudinary = "cloudinary"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	LogLevel            string
	CORSAllowOrigins    string
	OpenAIAPIKey        string
	OpenAIModel         string
	AnthropicAPIKey     string
	AnthropicModel      string
	AIPrimary           ai.ProviderID
	AISecondary         ai.ProviderID
	AIMode              ai.Mode
	AITimeout           time.Duration
	DatasetPushEnabled  bool
	DatasetSink         string
	DatasetTarget       string
	DatasetToken        string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	RateLimitMax        int
	RateLimitWindow     time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// HasFallback reports whether a distinct secondary provider is configured.
func (c Config) HasFallback() bool {
	return c.AISecondary != "" && c.AISecondary != c.AIPrimary
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MATHFLUENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "MathFluent API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("anthropic.model", "claude-3-7-sonnet-20250219")
	v.SetDefault("ai.primary", string(ai.ProviderOpenAI))
	v.SetDefault("ai.secondary", string(ai.ProviderAnthropic))
	v.SetDefault("ai.mode", string(ai.ModeOneShot))
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("dataset.push_enabled", false)
	v.SetDefault("dataset.sink", SinkLog)
	v.SetDefault("dataset.target", "mathfluent-results")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")

	timeout, err := time.ParseDuration(v.GetString("ai.timeout"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid ai timeout %q", v.GetString("ai.timeout"))
	}

	window, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil || window <= 0 {
		return Config{}, fmt.Errorf("invalid rate limit window %q", v.GetString("rate_limit.window"))
	}

	primary, err := ai.ParseProviderID(strings.ToLower(v.GetString("ai.primary")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid primary provider: %w", err)
	}

	var secondary ai.ProviderID
	if raw := strings.ToLower(strings.TrimSpace(v.GetString("ai.secondary"))); raw != "" && raw != "none" {
		secondary, err = ai.ParseProviderID(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid secondary provider: %w", err)
		}
	}

	mode, err := ai.ParseMode(strings.ToLower(v.GetString("ai.mode")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		LogLevel:            strings.ToLower(v.GetString("log.level")),
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		OpenAIAPIKey:        v.GetString("openai.api_key"),
		OpenAIModel:         v.GetString("openai.model"),
		AnthropicAPIKey:     v.GetString("anthropic.api_key"),
		AnthropicModel:      v.GetString("anthropic.model"),
		AIPrimary:           primary,
		AISecondary:         secondary,
		AIMode:              mode,
		AITimeout:           timeout,
		DatasetPushEnabled:  v.GetBool("dataset.push_enabled"),
		DatasetSink:         strings.ToLower(v.GetString("dataset.sink")),
		DatasetTarget:       v.GetString("dataset.target"),
		DatasetToken:        v.GetString("dataset.token"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		RateLimitMax:        v.GetInt("rate_limit.max"),
		RateLimitWindow:     window,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	required := map[ai.ProviderID]bool{c.AIPrimary: true}
	if c.HasFallback() {
		required[c.AISecondary] = true
	}
	if c.AIMode == ai.ModeAnalysisThenDecision {
		required[ai.ProviderOpenAI] = true
		required[ai.ProviderAnthropic] = true
	}

	if required[ai.ProviderOpenAI] && c.OpenAIAPIKey == "" {
		return fmt.Errorf("openai api key must be provided")
	}
	if required[ai.ProviderAnthropic] && c.AnthropicAPIKey == "" {
		return fmt.Errorf("anthropic api key must be provided")
	}

	if !c.DatasetPushEnabled {
		return nil
	}

	switch c.DatasetSink {
	case SinkLog:
	case SinkPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url must be provided for the postgres dataset sink")
		}
	case SinkRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis url must be provided for the redis dataset sink")
		}
	case SinkNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("nats url must be provided for the nats dataset sink")
		}
	case SinkCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("cloudinary credentials must be provided for the cloudinary dataset sink")
		}
	default:
		return fmt.Errorf("unknown dataset sink %q", c.DatasetSink)
	}

	return nil
}
