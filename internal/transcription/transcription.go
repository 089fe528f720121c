// Package transcription turns call recordings into plain text.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"heatglass/internal/logger"
	"heatglass/internal/types"
	"heatglass/internal/upstream"
)

// Language is the ISO-639-1 code of the recordings.
const Language = "pt"

var errEmptyTranscript = errors.New("empty transcript")

// Transcriber converts the audio file at audioPath into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// MockTranscript is returned by Mock.
const MockTranscript = `Atendente: Central de vidros, bom dia! Meu nome é Carlos, com quem eu falo?
Cliente: Bom dia, Carlos. Aqui é a Maria Souza. Uma pedra trincou o para-brisa do meu carro ontem na estrada.
Atendente: Sinto muito pelo ocorrido, dona Maria. Pode me informar seu CPF, telefone e a placa do veículo?
Cliente: Claro. CPF 123.456.789-09, telefone (11) 98765-4321, placa ABC1D23.
Atendente: Obrigado. Confirmando: Maria Souza, placa ABC1D23. A trinca tem mais de quinze centímetros?
Cliente: Tem sim, atravessa quase o vidro inteiro.
Atendente: Nesse caso é troca. Verifiquei aqui e o seu seguro cobre, com franquia de 450 reais.
Cliente: Hum, achei meio caro, mas tudo bem.
Atendente: Tenho horário amanhã às 9h na loja da Avenida Paulista. Pode ser?
Cliente: Pode sim.
Atendente: Leve o documento do veículo e chegue dez minutos antes. O serviço leva cerca de duas horas.
Cliente: Perfeito, obrigada.
Atendente: Agendado então. Tchau!`

// Mock returns MockTranscript without reading the file.
type Mock struct{}

func (Mock) Transcribe(ctx context.Context, audioPath string) (string, error) {
	logger.FromContext(ctx).WithField("component", "transcription-mock").Info("mock transcription mode ON")
	return MockTranscript, nil
}

// Whisper transcribes through the OpenAI audio API.
type Whisper struct {
	client *openai.Client
	model  string
	policy upstream.Policy
}

func NewWhisper(client *openai.Client, model string, p upstream.Policy) *Whisper {
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: client, model: model, policy: p}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log := logger.FromContext(ctx).WithField("component", "transcription-openai")

	var text string
	err := upstream.Do(ctx, upstream.ServiceTranscription, w.policy, func(ctx context.Context) error {
		resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    w.model,
			FilePath: audioPath,
			Language: Language,
		})
		if err != nil {
			return err
		}
		text = strings.TrimSpace(resp.Text)
		if text == "" {
			return errEmptyTranscript
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrTranscription, err)
	}
	log.WithField("chars", len(text)).Info("transcription finished")
	return text, nil
}

// transcribePrompt asks Gemini for a verbatim, speaker-labelled transcript.
const transcribePrompt = "Transcreva integralmente este áudio de uma ligação de atendimento em português. " +
	"Identifique as falas com \"Atendente:\" e \"Cliente:\", uma por linha. " +
	"Responda apenas com a transcrição, sem comentários."

// Gemini transcribes by sending the audio inline to a multimodal model.
type Gemini struct {
	client *genai.Client
	model  string
	policy upstream.Policy
}

func NewGemini(client *genai.Client, model string, p upstream.Policy) *Gemini {
	return &Gemini{client: client, model: model, policy: p}
}

func (g *Gemini) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log := logger.FromContext(ctx).WithField("component", "transcription-gemini")

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: read audio: %w", types.ErrTranscription, err)
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(audio, "audio/mp3"),
		}, genai.RoleUser),
	}

	var text string
	err = upstream.Do(ctx, upstream.ServiceTranscription, g.policy, func(ctx context.Context) error {
		res, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(res.Text())
		if text == "" {
			return errEmptyTranscript
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrTranscription, err)
	}
	log.WithField("chars", len(text)).Info("transcription finished")
	return text, nil
}
