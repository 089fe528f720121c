// Package tempfiles owns the audio files written to disk while a call is
// analysed, and sweeps the ones a crashed process left behind.
package tempfiles

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Prefix marks every file this package creates.
const Prefix = "heatglass-"

// Tracker registers temp files for one request so a single deferred
// Cleanup removes them on success and on failure alike.
type Tracker struct {
	dir   string
	mu    sync.Mutex
	paths []string
}

// NewTracker creates files in dir, or in os.TempDir() when dir is empty.
func NewTracker(dir string) *Tracker {
	return &Tracker{dir: dir}
}

// Create writes r to a new temp file ending in suffix and registers it.
func (t *Tracker) Create(suffix string, r io.Reader) (string, error) {
	f, err := os.CreateTemp(t.dir, Prefix+"*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	t.register(f.Name())

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func (t *Tracker) register(path string) {
	t.mu.Lock()
	t.paths = append(t.paths, path)
	t.mu.Unlock()
}

func (t *Tracker) registered() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.paths...)
}

// Cleanup removes every registered file. Files already gone are ignored.
func (t *Tracker) Cleanup() error {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()

	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
