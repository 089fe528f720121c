package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestDo_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), ServiceCompletion, Policy{MaxElapsed: 5 * time.Second}, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return &openai.APIError{HTTPStatusCode: http.StatusBadGateway, Message: "upstream down"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	calls := 0
	want := &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}
	err := Do(context.Background(), ServiceCompletion, Policy{MaxElapsed: 5 * time.Second}, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("chat: %w", want)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, want))
}

func TestDo_NoRetriesWhenDisabled(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), ServiceTranscription, Policy{}, func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls)
}

func TestDo_AttemptTimeout(t *testing.T) {
	t.Parallel()

	err := Do(context.Background(), ServiceCompletion, Policy{AttemptTimeout: 20 * time.Millisecond}, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"openai_400", &openai.APIError{HTTPStatusCode: 400}, true},
		{"openai_429", &openai.APIError{HTTPStatusCode: 429}, false},
		{"openai_500", &openai.APIError{HTTPStatusCode: 500}, false},
		{"request_404", &openai.RequestError{HTTPStatusCode: 404, Err: errors.New("nf")}, true},
		{"request_408", &openai.RequestError{HTTPStatusCode: 408, Err: errors.New("timeout")}, false},
		{"gemini_403", genai.APIError{Code: 403, Message: "denied"}, true},
		{"gemini_503", fmt.Errorf("generate: %w", genai.APIError{Code: 503}), false},
		{"plain", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsClientError(tt.err), tt.name)
	}
}
