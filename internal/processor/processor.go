// Package processor runs one call recording through the whole analysis:
// transcription, masking, prompting, completion, normalization and scoring.
package processor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"heatglass/internal/actionable"
	"heatglass/internal/extractor"
	"heatglass/internal/logger"
	"heatglass/internal/metrics"
	"heatglass/internal/normalizer"
	"heatglass/internal/pii"
	"heatglass/internal/rubric"
	"heatglass/internal/scoring"
	"heatglass/internal/tempfiles"
	"heatglass/internal/transcription"
	"heatglass/internal/types"
)

// Outcome labels for metrics.
const (
	OutcomeOK                 = "ok"
	OutcomePlaceholder        = "recovered_placeholder"
	OutcomeTranscriptionError = "transcription_error"
	OutcomeCompletionError    = "completion_error"
	OutcomeInternalError      = "internal_error"
)

// Result is returned by Analyze and rendered by the handlers.
type Result struct {
	ID                  string                `json:"id"`
	FileName            string                `json:"file_name"`
	CreatedAt           time.Time             `json:"created_at"`
	Transcript          string                `json:"transcript"`
	TranscriptTruncated bool                  `json:"transcript_truncated"`
	MaskedPII           []string              `json:"masked_pii,omitempty"`
	Raw                 string                `json:"raw"`
	Evaluation          types.Evaluation      `json:"evaluation"`
	Derived             scoring.Derived       `json:"derived"`
	Action              actionable.ActionCard `json:"action_card"`
	Strategy            normalizer.Strategy   `json:"strategy"`
	Recovered           bool                  `json:"recovered"`
	PromptTokens        int                   `json:"prompt_tokens"`
	DurationMs          int64                 `json:"duration_ms"`
	Error               string                `json:"error,omitempty"`
}

// Failed reports whether an upstream error stopped the analysis.
func (r Result) Failed() bool { return r.Error != "" }

// Deps are built once in main and shared by every request.
type Deps struct {
	Transcriber transcription.Transcriber
	Completer   extractor.Completer
	Rubric      rubric.Rubric
	Tokens      *extractor.TokenCounter
	// MaxTranscriptTokens truncates longer transcripts; 0 disables.
	MaxTranscriptTokens int
	MaskPII             bool
	TempDir             string
}

type Processor struct {
	deps Deps
}

func New(d Deps) *Processor {
	return &Processor{deps: d}
}

// Rubric returns the rubric evaluations are scored against.
func (p *Processor) Rubric() rubric.Rubric { return p.deps.Rubric }

// Analyze processes one recording. The returned Result is always usable:
// on an upstream failure it carries the placeholder evaluation and Error.
func (p *Processor) Analyze(ctx context.Context, fileName string, audio io.Reader) (Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx).WithField("component", "processor").WithField("file", fileName)

	r := p.deps.Rubric
	res := Result{
		ID:         uuid.New().String(),
		FileName:   fileName,
		CreatedAt:  start.UTC(),
		Evaluation: normalizer.Placeholder(r),
		Strategy:   normalizer.StrategyPlaceholder,
	}
	fail := func(outcome string, err error) (Result, error) {
		res.Error = err.Error()
		res.Derived = scoring.Derive(res.Evaluation, r.MaxScore)
		res.Action = actionable.Generate(res.Derived, res.Evaluation)
		res.DurationMs = time.Since(start).Milliseconds()
		metrics.Analysis(outcome)
		log.WithField("outcome", outcome).WithField("error", err.Error()).Warn("analysis failed")
		return res, err
	}

	tracker := tempfiles.NewTracker(p.deps.TempDir)
	defer func() {
		if err := tracker.Cleanup(); err != nil {
			log.WithField("error", err.Error()).Warn("temp cleanup failed")
		}
	}()

	audioPath, err := tracker.Create(".mp3", audio)
	if err != nil {
		return fail(OutcomeInternalError, err)
	}

	transcript, err := p.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fail(OutcomeTranscriptionError, err)
	}
	if p.deps.MaskPII {
		masked := pii.Mask(transcript)
		transcript = masked.Text
		res.MaskedPII = masked.Labels
	}
	res.Transcript = transcript

	promptTranscript, truncated := p.deps.Tokens.Truncate(transcript, p.deps.MaxTranscriptTokens)
	res.TranscriptTruncated = truncated
	prompt := extractor.BuildPrompt(promptTranscript, r)
	res.PromptTokens = p.deps.Tokens.Count(extractor.SystemInstruction) + p.deps.Tokens.Count(prompt)
	metrics.PromptTokens.Observe(float64(res.PromptTokens))
	log.WithField("prompt_tokens", res.PromptTokens).WithField("truncated", truncated).Debug("prompt built")

	raw, err := p.deps.Completer.Complete(ctx, extractor.SystemInstruction, prompt)
	if err != nil {
		return fail(OutcomeCompletionError, err)
	}
	res.Raw = raw

	norm := normalizer.Normalize(raw, r)
	res.Evaluation = norm.Evaluation
	res.Strategy = norm.Strategy
	res.Recovered = norm.Recovered
	metrics.Normalization(string(norm.Strategy))

	res.Derived = scoring.Derive(res.Evaluation, r.MaxScore)
	res.Action = actionable.Generate(res.Derived, res.Evaluation)
	res.DurationMs = time.Since(start).Milliseconds()
	metrics.ObserveScore(res.Derived.ScorePercent)

	outcome := OutcomeOK
	if !norm.Recovered {
		outcome = OutcomePlaceholder
		log.WithField("error", fmt.Sprint(norm.Err)).Warn("model output could not be parsed, using placeholder")
	}
	metrics.Analysis(outcome)

	log.WithFields(map[string]any{
		"outcome":      outcome,
		"strategy":     norm.Strategy,
		"total":        res.Derived.Total,
		"discrepancy":  res.Derived.Discrepancy,
		"disqualified": res.Derived.Disqualified,
		"duration_ms":  res.DurationMs,
	}).Info("analysis finished")
	return res, nil
}
