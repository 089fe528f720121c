package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"heatglass/internal/logger"
	"heatglass/internal/types"
	"heatglass/internal/upstream"
)

var errEmptyCompletion = errors.New("empty completion")

// Completer sends a system instruction and a prompt to a language model and
// returns its raw text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Options are shared by every completer.
type Options struct {
	Model       string
	Temperature float64
	// JSONMode requests a JSON-only response.
	JSONMode bool
	Policy   upstream.Policy
}

// OpenAICompleter calls the chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	opts   Options
}

func NewOpenAICompleter(client *openai.Client, opts Options) *OpenAICompleter {
	return &OpenAICompleter{client: client, opts: opts}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	log := logger.FromContext(ctx).WithField("component", "completion-openai").WithField("model", c.opts.Model)

	req := openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.opts.Temperature),
	}
	if c.opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := upstream.Do(ctx, upstream.ServiceCompletion, c.opts.Policy, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errEmptyCompletion
		}
		content = resp.Choices[0].Message.Content
		log.WithField("finish_reason", string(resp.Choices[0].FinishReason)).
			WithField("completion_tokens", resp.Usage.CompletionTokens).
			Debug("completion received")
		if strings.TrimSpace(content) == "" {
			return errEmptyCompletion
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrCompletion, err)
	}
	return content, nil
}
