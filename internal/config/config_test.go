package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatglass/internal/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AI_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "AI_TEMPERATURE",
		"USE_MOCK_TRANSCRIBE", "USE_MOCK_LLM", "MAX_UPLOAD_MB", "CORS_ALLOW_ORIGINS",
		"ANALYSIS_TIMEOUT", "HTTP_WRITE_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.True(t, cfg.JSONMode)
	assert.True(t, cfg.MaskPII)
	assert.Equal(t, 12000, cfg.MaxTranscriptTokens)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "@every 15m", cfg.TempSweepSchedule)
	assert.Equal(t, time.Hour, cfg.TempMaxAge)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, 150*time.Second, cfg.AnalysisTimeout)
	assert.LessOrEqual(t, cfg.AnalysisTimeout+ResponseMargin, cfg.HTTPWriteTimeout)
}

func TestLoad_MissingCredential(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingCredential)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	_, err = Load()
	assert.ErrorIs(t, err, types.ErrMissingCredential)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "g-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, "g-test", cfg.APIKey())
}

func TestLoad_MocksNeedNoCredential(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_MOCK_TRANSCRIBE", "true")
	t.Setenv("USE_MOCK_LLM", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FullyMocked())

	t.Setenv("USE_MOCK_LLM", "false")
	_, err = Load()
	assert.ErrorIs(t, err, types.ErrMissingCredential)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"provider", "AI_PROVIDER", "anthropic"},
		{"temperature_high", "AI_TEMPERATURE", "0.9"},
		{"temperature_low", "AI_TEMPERATURE", "0.1"},
		{"upload_limit", "MAX_UPLOAD_MB", "0"},
		{"not_a_number", "MAX_UPLOAD_MB", "lots"},
		{"write_timeout_below_analysis", "HTTP_WRITE_TIMEOUT", "120s"},
		{"analysis_eats_margin", "ANALYSIS_TIMEOUT", "170s"},
		{"analysis_timeout_zero", "ANALYSIS_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENAI_API_KEY", "sk-test")
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.NotErrorIs(t, err, types.ErrMissingCredential)
		})
	}
}

func TestValidate_TimeoutOrdering(t *testing.T) {
	t.Parallel()

	base := Config{
		Port:               8080,
		AIProvider:         ProviderOpenAI,
		OpenAIModel:        "gpt-4o",
		TranscriptionModel: "whisper-1",
		GeminiModel:        "gemini-2.0-flash",
		Temperature:        0.3,
		AIHTTPTimeout:      time.Minute,
		AnalysisTimeout:    150 * time.Second,
		UseMockTranscribe:  true,
		UseMockLLM:         true,
		MaxUploadMB:        25,
		RateLimitPerMin:    10,
		TempSweepSchedule:  "@every 15m",
		TempMaxAge:         time.Hour,
	}

	tests := []struct {
		name    string
		write   time.Duration
		wantErr bool
	}{
		{"exact_margin", 170 * time.Second, false},
		{"roomy", 180 * time.Second, false},
		{"no_write_timeout", 0, false},
		{"short_by_one_second", 169 * time.Second, true},
		{"below_analysis", 60 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			cfg.HTTPWriteTimeout = tt.write
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "HTTP_WRITE_TIMEOUT")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"*"}, Config{}.CORSOrigins())
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		Config{CORSAllowOrigins: " https://a.example, https://b.example ,"}.CORSOrigins())
}
