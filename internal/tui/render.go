package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quiz-widget/internal/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	clockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activeStyle   = lipgloss.NewStyle().Reverse(true).Bold(true)
	answeredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.result != nil {
		return renderResult(*m.result)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(m.title), "  ", clockStyle.Render(m.clock))
	parts := []string{header, m.renderMarkers(), panelStyle.Render(m.renderQuestion()), m.renderButtons()}
	if m.confirm != "" {
		parts = append(parts, promptStyle.Render(m.confirm+" [y/n]"))
	}
	parts = append(parts, helpStyle.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderMarkers() string {
	cells := make([]string, len(m.answered))
	for i, answered := range m.answered {
		label := fmt.Sprintf(" %d ", i+1)
		switch {
		case i == m.cursor:
			cells[i] = activeStyle.Render(label)
		case answered:
			cells[i] = answeredStyle.Render(label)
		default:
			cells[i] = pendingStyle.Render(label)
		}
	}
	return strings.Join(cells, "")
}

func (m *Model) renderQuestion() string {
	q := m.question
	if q == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(q.Text)
	b.WriteString("\n\n")
	if q.Kind == domain.KindFreeText {
		b.WriteString(m.input.View())
		return b.String()
	}
	for i, opt := range q.Options {
		pointer := "  "
		if i == m.option {
			pointer = "> "
		}
		b.WriteString(pointer)
		b.WriteString(checkbox(q.Kind, m.checked[opt]))
		b.WriteString(" ")
		b.WriteString(opt)
		if i < len(q.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func checkbox(kind domain.Kind, on bool) string {
	if kind == domain.KindSingleChoice {
		if on {
			return "(*)"
		}
		return "( )"
	}
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m *Model) renderButtons() string {
	l := m.labels
	return strings.Join([]string{
		"[" + l.Previous + "]",
		"[" + l.Skip + "]",
		"[" + l.Answer + "]",
		"[" + l.Next + "]",
		"[" + l.End + "]",
	}, " ")
}

func (m *Model) help() string {
	if m.freeText() {
		return "enter answer • tab/shift+tab next/prev • ctrl+s skip • ctrl+e end • ctrl+c quit"
	}
	return "←/→ prev/next • ↑/↓ option • space toggle • enter answer • s skip • 1-9 jump • e end • q quit"
}

func renderResult(r domain.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Quiz ended (%s)", r.Reason)))
	b.WriteString(fmt.Sprintf("\nAnswered %d of %d", r.AnsweredCount(), len(r.Questions)))
	for i, q := range r.Questions {
		answer := pendingStyle.Render("(no answer)")
		if q.Answered() {
			answer = answeredStyle.Render(strings.Join(q.Answers, ", "))
		}
		b.WriteString(fmt.Sprintf("\n%d. %s\n   %s", i+1, q.Text, answer))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("press q to exit"))
	return b.String()
}
