// Package navigator moves a cursor over an ordered, fixed-length set of
// quiz questions.
package navigator

import (
	"fmt"

	"quiz-widget/internal/domain"
)

// Navigator holds a cursor into a question slice it does not own.
// The cursor always stays within [0, len(questions)).
type Navigator struct {
	questions []*domain.Question
	cursor    int
}

// New builds a navigator positioned on the first question.
func New(questions []*domain.Question) (*Navigator, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: navigator needs at least one question", domain.ErrInvalidArgument)
	}
	return &Navigator{questions: questions}, nil
}

// Len returns the number of questions.
func (n *Navigator) Len() int {
	return len(n.questions)
}

// Current returns the question under the cursor.
func (n *Navigator) Current() *domain.Question {
	return n.questions[n.cursor]
}

// Cursor returns the current position.
func (n *Navigator) Cursor() int {
	return n.cursor
}

// SetCursor moves to index. Negative indexes count from the end, so -1 is
// the last question and -Len() the first. Callers should keep index >= -Len();
// anything else is still reduced into range but may not land where intended.
func (n *Navigator) SetCursor(index int) {
	size := len(n.questions)
	if index < 0 {
		index += size
	}
	n.cursor = ((index % size) + size) % size
}

// Next moves forward, wrapping to the first question.
func (n *Navigator) Next() {
	n.cursor = (n.cursor + 1) % len(n.questions)
}

// Prev moves back, wrapping to the last question.
func (n *Navigator) Prev() {
	size := len(n.questions)
	n.cursor = (n.cursor - 1 + size) % size
}

// NextUnanswered advances to the next question without answers.
//
// The search ends when it comes back around to the question it started
// from. Questions are compared by pointer, not content, so duplicates are
// told apart. On a full lap the cursor rests on the start question and the
// result reports whether that question itself is still unanswered; false
// therefore means every question has answers.
func (n *Navigator) NextUnanswered() bool {
	start := n.Current()
	n.Next()
	for n.Current() != start {
		if !n.Current().Answered() {
			return true
		}
		n.Next()
	}
	return !start.Answered()
}

// Unanswered returns the indexes of questions without answers.
func (n *Navigator) Unanswered() []int {
	var out []int
	for i, q := range n.questions {
		if !q.Answered() {
			out = append(out, i)
		}
	}
	return out
}
