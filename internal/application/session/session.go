// Package session ties the change tracker to the editor lifecycle: activation
// starts a periodic flush, deactivation stops it and drains what is left.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"prodtrack/internal/application"
	"prodtrack/internal/application/commands"
	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// DefaultInterval is the time between periodic flushes
const DefaultInterval = 5 * time.Minute

// Session owns the tracker for one workspace
type Session struct {
	workspace string
	tracker   *domain.Tracker
	flush     *commands.FlushCommand
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Session
type Option func(*Session)

// WithInterval sets the time between periodic flushes
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session writing to log. An empty workspace is a configuration
// error and tracking never starts.
func New(workspace string, log ports.ActivityLog, opts ...Option) (*Session, error) {
	if workspace == "" {
		return nil, application.ErrNoWorkspace
	}

	s := &Session{
		workspace: workspace,
		tracker:   domain.NewTracker(log.Path()),
		interval:  DefaultInterval,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.flush = commands.NewFlushCommand(s.tracker, log, s.logger)
	return s, nil
}

// Tracker returns the session's change tracker
func (s *Session) Tracker() *domain.Tracker {
	return s.tracker
}

// Workspace returns the workspace root the session tracks
func (s *Session) Workspace() string {
	return s.workspace
}

// Activate starts the periodic flush. Calling it twice is a no-op.
func (s *Session) Activate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.active = true

	s.wg.Add(1)
	go s.loop(loopCtx)

	s.logger.Info("tracking started", "workspace", s.workspace, "interval", s.interval)
	return nil
}

func (s *Session) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Flush(ctx); err != nil {
				s.logger.Error("periodic flush failed", "error", err)
			}
		}
	}
}

// DidOpen implements ports.DocumentEvents
func (s *Session) DidOpen(path, text string) {
	if s.tracker.Open(path, text) {
		s.logger.Debug("baseline recorded", "file", path)
	}
}

// DidSave implements ports.DocumentEvents
func (s *Session) DidSave(path, text string) {
	if delta := s.tracker.Save(path, text); delta > 0 {
		s.logger.Debug("growth recorded", "file", path, "chars_added", delta)
	}
}

// Flush writes pending growth to the log now
func (s *Session) Flush(ctx context.Context) (*commands.FlushResult, error) {
	return s.flush.Execute(ctx, s.now())
}

// Deactivate stops the periodic flush, waits for an in-flight flush to finish
// and performs the final drain. It is safe to call more than once.
func (s *Session) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.active = false
	s.mu.Unlock()

	s.wg.Wait()

	if _, err := s.Flush(ctx); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	s.logger.Info("tracking stopped", "workspace", s.workspace)
	return nil
}

var _ ports.DocumentEvents = (*Session)(nil)
