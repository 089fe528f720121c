package tempfiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"heatglass/internal/logger"
)

// Sweeper periodically deletes stale temp files created by this package.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
	log    *logrus.Entry
	now    func() time.Time
}

// NewSweeper schedules Sweep on schedule (standard cron spec or a
// descriptor such as "@every 15m").
func NewSweeper(dir, schedule string, maxAge time.Duration) (*Sweeper, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	log := logger.New().WithField("component", "temp-sweeper")
	s := &Sweeper{
		dir:    dir,
		maxAge: maxAge,
		log:    log,
		now:    time.Now,
		// Prevent overlapping runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log)))),
	}
	_, err := s.cron.AddFunc(schedule, func() {
		n, err := s.Sweep()
		entry := s.log.WithField("removed", n)
		if err != nil {
			entry.WithField("error", err.Error()).Warn("temp sweep finished with errors")
			return
		}
		entry.Debug("temp sweep finished")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *Sweeper) Start() {
	s.log.WithField("dir", s.dir).WithField("max_age", s.maxAge.String()).Info("temp sweeper started")
	s.cron.Start()
}

// Stop halts the schedule; the returned context ends when a running sweep
// completes.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

// Sweep removes files with Prefix in the sweeper's directory whose
// modification time is older than maxAge. It returns how many were removed.
func (s *Sweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.maxAge)

	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), Prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
