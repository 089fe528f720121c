package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"heatglass/internal/config"
	"heatglass/internal/extractor"
	"heatglass/internal/httpserver"
	"heatglass/internal/logger"
	"heatglass/internal/metrics"
	"heatglass/internal/processor"
	"heatglass/internal/render"
	"heatglass/internal/rubric"
	"heatglass/internal/tempfiles"
	"heatglass/internal/transcription"
	"heatglass/internal/upstream"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "heatglass").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := rubric.Default()
	transcriber, completer, err := buildClients(ctx, cfg, r)
	if err != nil {
		log.WithError(err).Fatal("failed to build AI clients")
	}
	log.WithFields(map[string]any{
		"provider":        cfg.AIProvider,
		"mock_transcribe": cfg.UseMockTranscribe,
		"mock_llm":        cfg.UseMockLLM,
		"rubric_version":  r.Version,
	}).Info("pipeline configured")

	tokens, err := extractor.NewTokenCounter()
	if err != nil {
		// Counting falls back to an estimate.
		log.WithError(err).Warn("token encoding unavailable")
	}

	sweeper, err := tempfiles.NewSweeper(cfg.TempDir, cfg.TempSweepSchedule, cfg.TempMaxAge)
	if err != nil {
		log.WithError(err).Fatal("invalid temp sweep schedule")
	}
	sweeper.Start()
	defer func() { <-sweeper.Stop().Done() }()

	proc := processor.New(processor.Deps{
		Transcriber:         transcriber,
		Completer:           completer,
		Rubric:              r,
		Tokens:              tokens,
		MaxTranscriptTokens: cfg.MaxTranscriptTokens,
		MaskPII:             cfg.MaskPII,
		TempDir:             cfg.TempDir,
	})
	pages, err := render.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("failed to parse templates")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.BuildRouter(httpserver.NewServer(cfg, proc, pages), log),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server terminated")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}

// buildClients picks the provider implementations, or the mocks when the
// matching USE_MOCK_* flag is set.
func buildClients(ctx context.Context, cfg config.Config, r rubric.Rubric) (transcription.Transcriber, extractor.Completer, error) {
	policy := upstream.Policy{AttemptTimeout: cfg.AIHTTPTimeout, MaxElapsed: cfg.AIBackoffMaxElapsed}
	opts := extractor.Options{
		Temperature: cfg.Temperature,
		JSONMode:    cfg.JSONMode,
		Policy:      policy,
	}

	var (
		transcriber transcription.Transcriber = transcription.Mock{}
		completer   extractor.Completer       = extractor.MockCompleter{Rubric: r}
	)
	if cfg.FullyMocked() {
		return transcriber, completer, nil
	}

	switch cfg.AIProvider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gemini client: %w", err)
		}
		if !cfg.UseMockTranscribe {
			transcriber = transcription.NewGemini(client, cfg.GeminiModel, policy)
		}
		if !cfg.UseMockLLM {
			opts.Model = cfg.GeminiModel
			completer = extractor.NewGeminiCompleter(client, opts)
		}
	default:
		oaCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			oaCfg.BaseURL = cfg.OpenAIBaseURL
		}
		client := openai.NewClientWithConfig(oaCfg)
		if !cfg.UseMockTranscribe {
			transcriber = transcription.NewWhisper(client, cfg.TranscriptionModel, policy)
		}
		if !cfg.UseMockLLM {
			opts.Model = cfg.OpenAIModel
			completer = extractor.NewOpenAICompleter(client, opts)
		}
	}
	return transcriber, completer, nil
}
