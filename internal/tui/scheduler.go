package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quiz-widget/internal/timer"
)

// tickMsg fires a scheduled callback inside Update.
type tickMsg struct {
	id int
}

// scheduler implements timer.Scheduler on top of tea.Tick so countdown
// ticks arrive as messages on the program's update goroutine. It is only
// touched from Update and must not be shared between programs.
type scheduler struct {
	next    int
	active  map[int]*handle
	pending []tea.Cmd
}

type handle struct {
	id       int
	interval time.Duration
	fn       func()
	s        *scheduler
}

func newScheduler() *scheduler {
	return &scheduler{active: make(map[int]*handle)}
}

func (s *scheduler) Every(interval time.Duration, fn func()) timer.Handle {
	s.next++
	h := &handle{id: s.next, interval: interval, fn: fn, s: s}
	s.active[h.id] = h
	s.pending = append(s.pending, h.arm())
	return h
}

func (h *handle) Cancel() {
	delete(h.s.active, h.id)
}

func (h *handle) arm() tea.Cmd {
	id := h.id
	return tea.Tick(h.interval, func(time.Time) tea.Msg { return tickMsg{id: id} })
}

// fire runs the callback for id and re-arms it while it stays active.
func (s *scheduler) fire(id int) {
	h, ok := s.active[id]
	if !ok {
		return
	}
	h.fn()
	if _, ok := s.active[id]; ok {
		s.pending = append(s.pending, h.arm())
	}
}

// drain returns the commands queued since the last call.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
