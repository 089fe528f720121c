// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"

	"heatglass/internal/types"
)

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"local"`
	Port        int    `env:"PORT" envDefault:"8080" validate:"gt=0,lte=65535"`

	AIProvider         string  `env:"AI_PROVIDER" envDefault:"openai" validate:"oneof=openai gemini"`
	OpenAIAPIKey       string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string  `env:"OPENAI_BASE_URL"`
	OpenAIModel        string  `env:"OPENAI_MODEL" envDefault:"gpt-4o" validate:"required"`
	TranscriptionModel string  `env:"TRANSCRIPTION_MODEL" envDefault:"whisper-1" validate:"required"`
	GeminiAPIKey       string  `env:"GEMINI_API_KEY"`
	GeminiModel        string  `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash" validate:"required"`
	Temperature        float64 `env:"AI_TEMPERATURE" envDefault:"0.3" validate:"gte=0.2,lte=0.4"`
	// JSONMode asks the provider for a JSON-only response when it supports it.
	JSONMode            bool          `env:"AI_JSON_MODE" envDefault:"true"`
	AIHTTPTimeout       time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	AIBackoffMaxElapsed time.Duration `env:"AI_BACKOFF_MAX_ELAPSED" envDefault:"90s" validate:"gte=0"`
	// AnalysisTimeout bounds one whole analysis, both upstream stages included.
	AnalysisTimeout   time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"150s" validate:"gt=0"`
	UseMockTranscribe bool          `env:"USE_MOCK_TRANSCRIBE" envDefault:"false"`
	UseMockLLM        bool          `env:"USE_MOCK_LLM" envDefault:"false"`
	// MaxTranscriptTokens truncates longer transcripts before prompting; 0 disables.
	MaxTranscriptTokens int  `env:"MAX_TRANSCRIPT_TOKENS" envDefault:"12000" validate:"gte=0"`
	MaskPII             bool `env:"MASK_PII" envDefault:"true"`

	MaxUploadMB      int64  `env:"MAX_UPLOAD_MB" envDefault:"25" validate:"gt=0"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin  int    `env:"RATE_LIMIT_PER_MIN" envDefault:"10" validate:"gt=0"`

	TempDir           string        `env:"TEMP_DIR"`
	TempSweepSchedule string        `env:"TEMP_SWEEP_SCHEDULE" envDefault:"@every 15m" validate:"required"`
	TempMaxAge        time.Duration `env:"TEMP_MAX_AGE" envDefault:"1h" validate:"gt=0"`

	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"180s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"20s"`
}

// Load parses environment variables into a Config and validates it. A
// missing provider credential is reported as types.ErrMissingCredential.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResponseMargin is the write time left after the analysis deadline for
// rendering the result page and its exports.
const ResponseMargin = 20 * time.Second

var validate = validator.New()

// Validate checks field constraints and the provider credential.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("op=config.Validate: %w", err)
	}
	if c.HTTPWriteTimeout > 0 && c.AnalysisTimeout+ResponseMargin > c.HTTPWriteTimeout {
		return fmt.Errorf("op=config.Validate: HTTP_WRITE_TIMEOUT %s must be at least ANALYSIS_TIMEOUT %s plus %s",
			c.HTTPWriteTimeout, c.AnalysisTimeout, ResponseMargin)
	}
	if c.FullyMocked() {
		return nil
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%w: %s requires %s", types.ErrMissingCredential, c.AIProvider, c.credentialVar())
	}
	return nil
}

// FullyMocked reports whether neither upstream is called.
func (c Config) FullyMocked() bool { return c.UseMockTranscribe && c.UseMockLLM }

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	if c.AIProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func (c Config) credentialVar() string {
	if c.AIProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

// IsLocal reports whether the app runs on a developer machine.
func (c Config) IsLocal() bool {
	e := strings.ToLower(c.Environment)
	return e == "" || e == "local"
}

// CORSOrigins splits CORS_ALLOW_ORIGINS.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
