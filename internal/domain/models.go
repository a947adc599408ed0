package domain

import "time"

// Kind is the input style of a question.
type Kind string

const (
	KindSingleChoice   Kind = "single-choice"
	KindMultipleChoice Kind = "multiple-choice"
	KindFreeText       Kind = "free-text"
)

// IsChoice reports whether answers are picked from Options.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultipleChoice
}

// Question is one quiz item. Answers is nil while the question is unanswered.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text" validate:"required"`
	Kind    Kind     `json:"kind" yaml:"kind" validate:"required,oneof=single-choice multiple-choice free-text"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" validate:"required_unless=Kind free-text,excluded_if=Kind free-text,dive,required"`
	Answers []string `json:"answers,omitempty" yaml:"-"`
}

// Answered reports whether at least one answer is recorded.
func (q *Question) Answered() bool {
	return len(q.Answers) > 0
}

// Clone returns a detached copy so sessions never share answer state.
func (q *Question) Clone() *Question {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	if q.Answers != nil {
		c.Answers = append([]string(nil), q.Answers...)
	}
	return &c
}

// Quiz is an ordered set of questions with a time limit.
type Quiz struct {
	ID              string      `json:"id" yaml:"id" validate:"required"`
	Title           string      `json:"title" yaml:"title"`
	DurationMinutes int         `json:"durationMinutes" yaml:"duration_minutes" validate:"gte=0"`
	Questions       []*Question `json:"questions" yaml:"questions" validate:"required,min=1,dive,required"`
}

// CloneQuestions copies every question of the quiz.
func (q Quiz) CloneQuestions() []*Question {
	out := make([]*Question, len(q.Questions))
	for i, question := range q.Questions {
		out[i] = question.Clone()
	}
	return out
}

// Outline strips recorded answers, for clients that only need the layout.
func (q Quiz) Outline() Quiz {
	out := q
	out.Questions = make([]*Question, len(q.Questions))
	for i, question := range q.Questions {
		c := question.Clone()
		c.Answers = nil
		out.Questions[i] = c
	}
	return out
}

// EndReason records why a session ended.
type EndReason string

const (
	EndSubmitted EndReason = "submitted"
	EndTimeout   EndReason = "timeout"
	EndAbandoned EndReason = "abandoned"
)

// Result is the outcome of a finished session.
type Result struct {
	SessionID        string      `json:"sessionId"`
	QuizID           string      `json:"quizId"`
	Reason           EndReason   `json:"reason"`
	RemainingSeconds int         `json:"remainingSeconds"`
	Questions        []*Question `json:"questions"`
	FinishedAt       time.Time   `json:"finishedAt"`
}

// AnsweredCount returns how many questions carry answers.
func (r Result) AnsweredCount() int {
	n := 0
	for _, q := range r.Questions {
		if q.Answered() {
			n++
		}
	}
	return n
}
