package app

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"quiz-widget/internal/domain"
	"quiz-widget/internal/logging"
	"quiz-widget/internal/navigator"
	"quiz-widget/internal/timer"
)

// State is the lifecycle stage of a quiz session.
type State int

const (
	StateNotLoaded State = iota
	StateLoaded
	StateRunning
	StateAwaitingEndConfirmation
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNotLoaded:
		return "not-loaded"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateAwaitingEndConfirmation:
		return "awaiting-end-confirmation"
	case StateEnded:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	DurationMinutes int
	ConfirmMessage  string
	Scheduler       timer.Scheduler
	// OnComplete receives the question list, answers included, once per session.
	OnComplete func(questions []*domain.Question)
	// OnAnswer is called after an answer submission stored at least one value.
	OnAnswer func(index int, q *domain.Question)
	Logger   *logrus.Entry
}

// Controller coordinates navigation, answer capture and the countdown of
// one quiz session. All methods must be called from the session goroutine,
// the same one the scheduler runs ticks on.
type Controller struct {
	questions []*domain.Question
	nav       *navigator.Navigator
	countdown *timer.Countdown
	view      Presentation
	opts      ControllerOptions
	log       *logrus.Entry

	state       State
	allAnswered bool
	reason      domain.EndReason
}

// NewController builds a controller over questions. The slice is used in
// place: answers are written to its elements.
func NewController(questions []*domain.Question, view Presentation, opts ControllerOptions) (*Controller, error) {
	nav, err := navigator.New(questions)
	if err != nil {
		return nil, err
	}
	if view == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("%w: controller needs a presentation and a scheduler", domain.ErrInvalidArgument)
	}
	if opts.ConfirmMessage == "" {
		opts.ConfirmMessage = DefaultViewConfig().ConfirmMessage
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		questions: questions,
		nav:       nav,
		view:      view,
		opts:      opts,
		log:       log,
		state:     StateNotLoaded,
	}, nil
}

// LoadQuiz renders the skeleton, binds input and configures the countdown.
func (c *Controller) LoadQuiz() error {
	if c.state != StateNotLoaded {
		return fmt.Errorf("%w: load from %s", domain.ErrInvalidState, c.state)
	}
	c.view.RenderSkeleton(len(c.questions))
	c.view.Bind(c)
	for i, q := range c.questions {
		if q.Answered() {
			c.view.SetAnsweredMarker(i, true)
		}
	}
	seconds := timer.ToSeconds(0, c.opts.DurationMinutes, 0)
	c.countdown = timer.NewCountdown(seconds, c.displayTime, c.timeout, c.opts.Scheduler)
	c.transition(StateLoaded)
	return nil
}

// StartQuiz shows the first question and starts the countdown.
func (c *Controller) StartQuiz() error {
	if c.state != StateLoaded {
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidState, c.state)
	}
	c.transition(StateRunning)
	c.view.SetNavMarker(c.nav.Cursor(), true)
	c.view.RenderQuestion(c.nav.Current())
	c.countdown.Start()
	return nil
}

// Prev moves to the previous question.
func (c *Controller) Prev() {
	if c.state != StateRunning {
		return
	}
	c.move(c.nav.Prev)
}

// Next moves to the following question.
func (c *Controller) Next() {
	if c.state != StateRunning {
		return
	}
	c.move(c.nav.Next)
}

// Select jumps to the question at index.
func (c *Controller) Select(index int) {
	if c.state != StateRunning {
		return
	}
	c.move(func() { c.nav.SetCursor(index) })
}

// Skip moves to the next unanswered question. When the current question is
// the only one left the cursor stays and the view is refreshed in place.
func (c *Controller) Skip() {
	if c.state != StateRunning {
		return
	}
	c.move(func() { c.nav.NextUnanswered() })
}

// Answer stores the selection for the current question and moves on.
func (c *Controller) Answer() {
	if c.state != StateRunning {
		return
	}
	index := c.nav.Cursor()
	q := c.nav.Current()
	answers := selectAnswers(q, c.view.ReadSelectedAnswers(q))
	if len(answers) > 0 {
		q.Answers = answers
		c.view.SetAnsweredMarker(index, true)
		if c.opts.OnAnswer != nil {
			c.opts.OnAnswer(index, q)
		}
	} else {
		q.Answers = nil
		c.view.SetAnsweredMarker(index, false)
	}

	if c.allAnswered {
		c.move(c.nav.Next)
		return
	}

	c.view.SetNavMarker(index, false)
	if c.nav.NextUnanswered() {
		c.view.RenderQuestion(c.nav.Current())
		c.view.SetNavMarker(c.nav.Cursor(), true)
		return
	}
	c.view.SetNavMarker(c.nav.Cursor(), true)
	c.transition(StateAwaitingEndConfirmation)
	c.view.Confirm(c.opts.ConfirmMessage)
}

// ConfirmEnd answers the end-of-quiz prompt. Declining keeps the session
// running and stops further prompts.
func (c *Controller) ConfirmEnd(ok bool) {
	if c.state != StateAwaitingEndConfirmation {
		return
	}
	if ok {
		c.finish(domain.EndSubmitted)
		return
	}
	c.allAnswered = true
	c.transition(StateRunning)
	c.move(c.nav.Next)
}

// End finishes the session on user request.
func (c *Controller) End() {
	c.finish(domain.EndSubmitted)
}

// Abandon stops a session whose presentation went away. The completion
// callback is not invoked.
func (c *Controller) Abandon() {
	if c.state == StateEnded {
		return
	}
	c.reason = domain.EndAbandoned
	c.transition(StateEnded)
	if c.countdown != nil {
		c.countdown.Stop()
	}
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	return c.state
}

// Reason reports why the session ended; empty while it runs.
func (c *Controller) Reason() domain.EndReason {
	return c.reason
}

// Cursor returns the index of the displayed question.
func (c *Controller) Cursor() int {
	return c.nav.Cursor()
}

// Remaining returns the seconds left on the countdown.
func (c *Controller) Remaining() int {
	if c.countdown == nil {
		return 0
	}
	return c.countdown.Seconds()
}

// Questions returns the session's question list.
func (c *Controller) Questions() []*domain.Question {
	return c.questions
}

func (c *Controller) move(step func()) {
	c.view.SetNavMarker(c.nav.Cursor(), false)
	step()
	c.view.RenderQuestion(c.nav.Current())
	c.view.SetNavMarker(c.nav.Cursor(), true)
}

func (c *Controller) displayTime(remaining int) {
	c.view.DisplayTime(timer.FormatClock(remaining))
}

func (c *Controller) timeout() {
	c.finish(domain.EndTimeout)
}

func (c *Controller) finish(reason domain.EndReason) {
	if c.state != StateRunning && c.state != StateAwaitingEndConfirmation {
		return
	}
	c.reason = reason
	c.transition(StateEnded)
	c.countdown.Stop()
	if c.opts.OnComplete != nil {
		c.opts.OnComplete(c.questions)
	}
}

func (c *Controller) transition(next State) {
	c.log.WithFields(logrus.Fields{
		"from": c.state.String(),
		"to":   next.String(),
	}).Debug("quiz state changed")
	c.state = next
}

// selectAnswers normalizes a raw selection. Choice questions keep checked
// options in option order; free-text keeps the first non-blank value.
func selectAnswers(q *domain.Question, raw []string) []string {
	if !q.Kind.IsChoice() {
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				return []string{v}
			}
		}
		return nil
	}

	checked := make(map[string]bool, len(raw))
	for _, v := range raw {
		checked[v] = true
	}
	var out []string
	for _, opt := range q.Options {
		if !checked[opt] {
			continue
		}
		out = append(out, opt)
		delete(checked, opt)
		if q.Kind == domain.KindSingleChoice {
			break
		}
	}
	return out
}
