// Package tui plays a quiz in the terminal with Bubble Tea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quiz-widget/internal/app"
	"quiz-widget/internal/domain"
)

// Model is both the Bubble Tea model and the session's Presentation.
type Model struct {
	service *app.SessionService
	session *app.Session
	sched   *scheduler
	handler app.InputHandler
	labels  app.ButtonLabels
	title   string

	answered []bool
	cursor   int
	question *domain.Question
	option   int
	checked  map[string]bool
	input    textinput.Model
	clock    string
	confirm  string
	result   *domain.Result
	quitting bool
}

// New opens and starts a session for quizID. The countdown begins
// ticking once the program runs Init.
func New(ctx context.Context, service *app.SessionService, quizID string) (*Model, error) {
	input := textinput.New()
	input.Placeholder = "Type your answer"
	input.CharLimit = 500

	m := &Model{
		service: service,
		sched:   newScheduler(),
		labels:  service.View().Labels,
		checked: make(map[string]bool),
		input:   input,
	}
	session, err := service.Open(ctx, quizID, m, m.sched)
	if err != nil {
		return nil, err
	}
	if err := service.Start(session); err != nil {
		service.Close(session)
		return nil, err
	}
	m.session = session
	m.title = session.Title()
	if m.title == "" {
		m.title = session.QuizID()
	}
	return m, nil
}

// Session returns the running session.
func (m *Model) Session() *app.Session { return m.session }

// Result returns the final result once the quiz has ended.
func (m *Model) Result() (domain.Result, bool) {
	if m.result == nil {
		return domain.Result{}, false
	}
	return *m.result, true
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.sched.drain(), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch typed := msg.(type) {
	case tickMsg:
		m.sched.fire(typed.id)
	case tea.KeyMsg:
		cmd = m.handleKey(typed)
	default:
		if m.freeText() {
			m.input, cmd = m.input.Update(msg)
		}
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.quit()
		return nil
	}

	if m.result != nil {
		switch key {
		case "q", "enter", "esc":
			m.quit()
		}
		return nil
	}

	if m.confirm != "" {
		switch key {
		case "y", "Y", "enter":
			m.confirm = ""
			m.handler.ConfirmEnd(true)
		case "n", "N", "esc":
			m.confirm = ""
			m.handler.ConfirmEnd(false)
		}
		return nil
	}

	if m.freeText() {
		switch key {
		case "enter":
			m.handler.Answer()
		case "tab":
			m.handler.Next()
		case "shift+tab":
			m.handler.Prev()
		case "ctrl+s":
			m.handler.Skip()
		case "ctrl+e":
			m.handler.End()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
		return nil
	}

	switch key {
	case "left", "h", "shift+tab":
		m.handler.Prev()
	case "right", "l", "tab":
		m.handler.Next()
	case "s":
		m.handler.Skip()
	case "e":
		m.handler.End()
	case "enter":
		m.handler.Answer()
	case "up", "k":
		if m.option > 0 {
			m.option--
		}
	case "down", "j":
		if m.question != nil && m.option < len(m.question.Options)-1 {
			m.option++
		}
	case " ", "space", "x":
		m.toggle()
	case "q":
		m.quit()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.handler.Select(int(key[0] - '1'))
	}
	return nil
}

func (m *Model) toggle() {
	if m.question == nil || len(m.question.Options) == 0 {
		return
	}
	opt := m.question.Options[m.option]
	if m.question.Kind == domain.KindSingleChoice {
		was := m.checked[opt]
		m.checked = make(map[string]bool)
		m.checked[opt] = !was
		return
	}
	m.checked[opt] = !m.checked[opt]
}

func (m *Model) quit() {
	if m.session != nil {
		m.service.Close(m.session)
	}
	m.quitting = true
}

func (m *Model) freeText() bool {
	return m.result == nil && m.question != nil && m.question.Kind == domain.KindFreeText
}

// Presentation

func (m *Model) Bind(h app.InputHandler) { m.handler = h }

func (m *Model) RenderSkeleton(count int) {
	if len(m.answered) == count {
		return
	}
	m.answered = make([]bool, count)
}

func (m *Model) RenderQuestion(q *domain.Question) {
	m.question = q
	m.option = 0
	m.checked = make(map[string]bool)
	for _, a := range q.Answers {
		m.checked[a] = true
	}
	if q.Kind == domain.KindFreeText {
		value := ""
		if len(q.Answers) > 0 {
			value = q.Answers[0]
		}
		m.input.SetValue(value)
		m.input.CursorEnd()
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) SetNavMarker(index int, active bool) {
	if active {
		m.cursor = index
	}
}

func (m *Model) SetAnsweredMarker(index int, answered bool) {
	if index >= 0 && index < len(m.answered) {
		m.answered[index] = answered
	}
}

func (m *Model) ReadSelectedAnswers(q *domain.Question) []string {
	if q.Kind == domain.KindFreeText {
		return []string{m.input.Value()}
	}
	var out []string
	for _, opt := range q.Options {
		if m.checked[opt] {
			out = append(out, opt)
		}
	}
	return out
}

func (m *Model) DisplayTime(formatted string) { m.clock = formatted }

func (m *Model) Confirm(message string) { m.confirm = message }

func (m *Model) ShowResult(result domain.Result) {
	m.result = &result
	m.confirm = ""
	m.input.Blur()
}
