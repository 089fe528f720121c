package tempfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_CreateAndCleanup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr := NewTracker(dir)

	p1, err := tr.Create(".mp3", strings.NewReader("audio-1"))
	require.NoError(t, err)
	p2, err := tr.Create(".mp3", strings.NewReader("audio-2"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(p1))
	assert.True(t, strings.HasPrefix(filepath.Base(p1), Prefix))
	assert.True(t, strings.HasSuffix(p1, ".mp3"))
	b, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "audio-2", string(b))
	assert.ElementsMatch(t, []string{p1, p2}, tr.registered())

	require.NoError(t, os.Remove(p1))
	require.NoError(t, tr.Cleanup())
	assert.NoFileExists(t, p2)
	assert.Empty(t, tr.registered())
	require.NoError(t, tr.Cleanup())
}

func TestTracker_CreateFailsOnMissingDir(t *testing.T) {
	t.Parallel()

	tr := NewTracker(filepath.Join(t.TempDir(), "missing"))
	_, err := tr.Create(".mp3", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	old := filepath.Join(dir, Prefix+"old.mp3")
	fresh := filepath.Join(dir, Prefix+"fresh.mp3")
	foreign := filepath.Join(dir, "other-old.mp3")
	for _, p := range []string{old, fresh, foreign} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(foreign, past, past))

	s, err := NewSweeper(dir, "@every 15m", time.Hour)
	require.NoError(t, err)

	n, err := s.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewSweeper(t.TempDir(), "every quarter hour", time.Hour)
	assert.Error(t, err)
}

func TestSweeper_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewSweeper(t.TempDir(), "@every 1h", time.Hour)
	require.NoError(t, err)
	s.Start()
	<-s.Stop().Done()
}
