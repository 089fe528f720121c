package extractor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"heatglass/internal/logger"
	"heatglass/internal/types"
	"heatglass/internal/upstream"
)

// GeminiCompleter calls GenerateContent on the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	opts   Options
}

func NewGeminiCompleter(client *genai.Client, opts Options) *GeminiCompleter {
	return &GeminiCompleter{client: client, opts: opts}
}

func (g *GeminiCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	log := logger.FromContext(ctx).WithField("component", "completion-gemini").WithField("model", g.opts.Model)

	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(g.opts.Temperature)),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if g.opts.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	var text string
	err := upstream.Do(ctx, upstream.ServiceCompletion, g.opts.Policy, func(ctx context.Context) error {
		res, err := g.client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), cfg)
		if err != nil {
			return err
		}
		text = res.Text()
		if strings.TrimSpace(text) == "" {
			return errEmptyCompletion
		}
		if res.UsageMetadata != nil {
			log.WithField("completion_tokens", res.UsageMetadata.CandidatesTokenCount).Debug("completion received")
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrCompletion, err)
	}
	return text, nil
}
