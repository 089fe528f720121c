package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatglass/internal/types"
	"heatglass/internal/upstream"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "call.mp3")
	require.NoError(t, os.WriteFile(p, []byte("ID3fake-mp3-bytes"), 0o600))
	return p
}

func newClient(url string) *openai.Client {
	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = url + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestWhisper_Transcribe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, openai.Whisper1, r.FormValue("model"))
		assert.Equal(t, Language, r.FormValue("language"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "call.mp3", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  Central de vidros, bom dia!  "}`))
	}))
	defer srv.Close()

	tr := NewWhisper(newClient(srv.URL), "", upstream.Policy{})
	text, err := tr.Transcribe(context.Background(), writeAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "Central de vidros, bom dia!", text)
}

func TestWhisper_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid file format","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	tr := NewWhisper(newClient(srv.URL), openai.Whisper1, upstream.Policy{})

	_, err := tr.Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTranscription)

	_, err = tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, types.ErrTranscription)
}

func TestMock_Transcribe(t *testing.T) {
	t.Parallel()

	text, err := Mock{}.Transcribe(context.Background(), "ignored.mp3")
	require.NoError(t, err)
	assert.Equal(t, MockTranscript, text)
	assert.Contains(t, text, "Atendente:")
}
