package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quiz-widget/internal/domain"
	"quiz-widget/internal/logging"
	"quiz-widget/internal/metrics"
	"quiz-widget/internal/timer"
)

// SessionRepository abstracts how open sessions are tracked (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	Count() int
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResultStore persists finished sessions.
type ResultStore interface {
	SaveResult(ctx context.Context, result domain.Result) error
	GetResult(ctx context.Context, sessionID string) (domain.Result, error)
}

// ResultViewer is implemented by presentations that show the final result.
type ResultViewer interface {
	ShowResult(result domain.Result)
}

// ServiceOptions tunes a SessionService.
type ServiceOptions struct {
	// DefaultDurationMinutes applies to quizzes without their own limit.
	DefaultDurationMinutes int
	View                   ViewConfig
	Metrics                *metrics.Metrics
	Logger                 *logrus.Entry
	Clock                  func() time.Time
	SaveTimeout            time.Duration
}

// SessionService contains the quiz session use cases.
type SessionService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	results  ResultStore
	opts     ServiceOptions
	log      *logrus.Entry
	now      func() time.Time
}

func NewSessionService(sessions SessionRepository, quizzes QuizRepository, results ResultStore, opts ServiceOptions) *SessionService {
	if opts.DefaultDurationMinutes <= 0 {
		opts.DefaultDurationMinutes = 10
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}
	opts.View = opts.View.WithDefaults()
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		sessions: sessions,
		quizzes:  quizzes,
		results:  results,
		opts:     opts,
		log:      log,
		now:      now,
	}
}

// View returns the presentation settings for new sessions.
func (s *SessionService) View() ViewConfig {
	return s.opts.View
}

// Outline returns a quiz without recorded answers.
func (s *SessionService) Outline(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz.Outline(), nil
}

// Open loads a quiz, binds it to view and leaves it in the loaded state.
// The returned session must only be driven from the goroutine sched runs
// ticks on.
func (s *SessionService) Open(ctx context.Context, quizID string, view Presentation, sched timer.Scheduler) (*Session, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	session := &Session{
		id:        uuid.NewString(),
		quizID:    quiz.ID,
		title:     quiz.Title,
		createdAt: s.now(),
		view:      view,
	}
	log := s.log.WithFields(logrus.Fields{"session_id": session.id, "quiz_id": quiz.ID})

	minutes := quiz.DurationMinutes
	if minutes <= 0 {
		minutes = s.opts.DefaultDurationMinutes
	}
	controller, err := NewController(quiz.CloneQuestions(), view, ControllerOptions{
		DurationMinutes: minutes,
		ConfirmMessage:  s.opts.View.ConfirmMessage,
		Scheduler:       sched,
		OnComplete: func(questions []*domain.Question) {
			s.complete(session, questions)
		},
		OnAnswer: func(int, *domain.Question) {
			s.opts.Metrics.AnswersRecorded.Inc()
		},
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	session.controller = controller
	session.log = log

	if err := controller.LoadQuiz(); err != nil {
		return nil, err
	}
	s.sessions.Put(session)
	s.opts.Metrics.SessionsActive.Inc()
	log.WithField("duration_minutes", minutes).Info("quiz session opened")
	return session, nil
}

// Start moves an opened session into the running state.
func (s *SessionService) Start(session *Session) error {
	if err := session.controller.StartQuiz(); err != nil {
		return err
	}
	s.opts.Metrics.SessionsStarted.Inc()
	return nil
}

// Close forgets a session. A session that is still running is abandoned.
func (s *SessionService) Close(session *Session) {
	if session.controller.State() != StateEnded {
		session.controller.Abandon()
		s.opts.Metrics.SessionsCompleted.WithLabelValues(string(domain.EndAbandoned)).Inc()
		session.log.Info("quiz session abandoned")
	}
	if _, ok := s.sessions.Get(session.id); ok {
		s.sessions.Delete(session.id)
		s.opts.Metrics.SessionsActive.Dec()
	}
}

// Result returns a stored result.
func (s *SessionService) Result(ctx context.Context, sessionID string) (domain.Result, error) {
	return s.results.GetResult(ctx, sessionID)
}

// ActiveSessions returns how many sessions are open.
func (s *SessionService) ActiveSessions() int {
	return s.sessions.Count()
}

func (s *SessionService) complete(session *Session, questions []*domain.Question) {
	result := domain.Result{
		SessionID:        session.id,
		QuizID:           session.quizID,
		Reason:           session.controller.Reason(),
		RemainingSeconds: session.controller.Remaining(),
		Questions:        make([]*domain.Question, len(questions)),
		FinishedAt:       s.now(),
	}
	for i, q := range questions {
		result.Questions[i] = q.Clone()
	}
	session.result = &result

	s.opts.Metrics.SessionsCompleted.WithLabelValues(string(result.Reason)).Inc()
	s.opts.Metrics.AnsweredRatio.Observe(float64(result.AnsweredCount()) / float64(len(questions)))

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
	defer cancel()
	if err := s.results.SaveResult(ctx, result); err != nil {
		session.log.WithError(err).Warn("failed to save quiz result")
	} else {
		session.log.WithFields(logrus.Fields{
			"reason":   result.Reason,
			"answered": result.AnsweredCount(),
		}).Info("quiz session completed")
	}

	if viewer, ok := session.view.(ResultViewer); ok {
		viewer.ShowResult(result)
	}
}

// Session is one user's run through a quiz.
type Session struct {
	id         string
	quizID     string
	title      string
	createdAt  time.Time
	view       Presentation
	controller *Controller
	result     *domain.Result
	log        *logrus.Entry
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// QuizID returns the quiz the session runs.
func (s *Session) QuizID() string { return s.quizID }

// Title returns the quiz title.
func (s *Session) Title() string { return s.title }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Controller returns the session's controller.
func (s *Session) Controller() *Controller { return s.controller }

// Result returns the final result once the session has completed.
func (s *Session) Result() (domain.Result, bool) {
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}
