package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrTerminated    = errors.New("test session was terminated")
	ErrNotFullscreen = errors.New("answers can only be submitted in full-screen mode")
)

// Reporter records a violation on the server. Failures never affect the session.
type Reporter interface {
	ReportActivity(ctx context.Context, testID, userID uuid.UUID, activity string) error
}

type Submitter interface {
	SubmitTest(ctx context.Context, testID uuid.UUID, answers []string) (*Result, error)
}

// Presenter is the test-taking view.
type Presenter interface {
	RequestFullscreen() error
	ShowWarning(message string)
}

type Navigator interface {
	ReturnToTests(courseID uuid.UUID)
}

type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

type SessionConfig struct {
	TestID    uuid.UUID
	CourseID  uuid.UUID
	UserID    uuid.UUID
	Reporter  Reporter
	Submitter Submitter
	Presenter Presenter
	Navigator Navigator
}

// Session owns one student's monitor state for one open test.
type Session struct {
	cfg   SessionConfig
	log   *slog.Logger
	mu    sync.Mutex
	state State
}

func NewSession(cfg SessionConfig) *Session {
	return &Session{
		cfg: cfg,
		log: slog.With("test_id", cfg.TestID, "user_id", cfg.UserID),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handle applies e and runs the resulting effects in order.
func (s *Session) Handle(ctx context.Context, e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := s.state.Apply(e)
	s.state = next
	for _, effect := range effects {
		s.run(ctx, effect)
	}
	return s.state
}

func (s *Session) run(ctx context.Context, effect Effect) {
	switch effect.Kind {
	case ReportActivity:
		if err := s.cfg.Reporter.ReportActivity(ctx, s.cfg.TestID, s.cfg.UserID, effect.Reason); err != nil {
			s.log.Debug("failed to report suspicious activity", "activity", effect.Reason, "error", err)
		}
	case ShowWarning:
		s.cfg.Presenter.ShowWarning(fmt.Sprintf("Warning: %s. This is warning %d of %d.", effect.Reason, effect.Warning, MaxWarnings))
	case RequestFullscreen:
		if err := s.cfg.Presenter.RequestFullscreen(); err != nil {
			s.log.Warn("full-screen request refused", "error", err)
			s.state = s.state.FullscreenFailed()
		}
	case Terminate:
		s.log.Warn("test session terminated", "warnings", s.state.Warnings)
		s.cfg.Presenter.ShowWarning("Too many warnings. Test terminated due to suspicious activity.")
		s.cfg.Navigator.ReturnToTests(s.cfg.CourseID)
	}
}

// Submit sends answers unless the session was terminated or left full-screen.
func (s *Session) Submit(ctx context.Context, answers []string) (*Result, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state.Terminated {
		return nil, ErrTerminated
	}
	if !state.Fullscreen {
		return nil, ErrNotFullscreen
	}

	result, err := s.cfg.Submitter.SubmitTest(ctx, s.cfg.TestID, answers)
	if err != nil {
		return nil, err
	}
	s.cfg.Navigator.ReturnToTests(s.cfg.CourseID)
	return result, nil
}
