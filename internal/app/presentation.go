package app

import "quiz-widget/internal/domain"

// InputHandler receives user input from a Presentation.
type InputHandler interface {
	Prev()
	Next()
	Skip()
	Answer()
	End()
	Select(index int)
	ConfirmEnd(ok bool)
}

// Presentation renders a quiz session and reports user input. All methods
// are called from the session goroutine.
type Presentation interface {
	// Bind registers the handler that receives input events.
	Bind(h InputHandler)
	// RenderSkeleton draws the static layout; repeated calls must not duplicate it.
	RenderSkeleton(questionCount int)
	// RenderQuestion replaces the displayed question, pre-filled from its answers.
	RenderQuestion(q *domain.Question)
	SetNavMarker(index int, active bool)
	SetAnsweredMarker(index int, answered bool)
	// ReadSelectedAnswers returns the values currently selected for q.
	ReadSelectedAnswers(q *domain.Question) []string
	DisplayTime(formatted string)
	// Confirm asks whether to end the quiz. The reply arrives through
	// InputHandler.ConfirmEnd.
	Confirm(message string)
}

// ButtonLabels are the captions of the five quiz controls.
type ButtonLabels struct {
	Previous string `yaml:"previous" json:"previous"`
	Skip     string `yaml:"skip" json:"skip"`
	Answer   string `yaml:"answer" json:"answer"`
	Next     string `yaml:"next" json:"next"`
	End      string `yaml:"end" json:"end"`
}

// ViewConfig is handed to presentations when they are built.
type ViewConfig struct {
	Labels         ButtonLabels `yaml:"labels" json:"labels"`
	ConfirmMessage string       `yaml:"confirm_message" json:"confirmMessage"`
}

// DefaultViewConfig returns the stock labels.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Labels: ButtonLabels{
			Previous: "Previous",
			Skip:     "Skip",
			Answer:   "Answer",
			Next:     "Next",
			End:      "End",
		},
		ConfirmMessage: "All questions are answered. End the quiz?",
	}
}

// WithDefaults fills empty fields from DefaultViewConfig.
func (v ViewConfig) WithDefaults() ViewConfig {
	d := DefaultViewConfig()
	if v.Labels.Previous == "" {
		v.Labels.Previous = d.Labels.Previous
	}
	if v.Labels.Skip == "" {
		v.Labels.Skip = d.Labels.Skip
	}
	if v.Labels.Answer == "" {
		v.Labels.Answer = d.Labels.Answer
	}
	if v.Labels.Next == "" {
		v.Labels.Next = d.Labels.Next
	}
	if v.Labels.End == "" {
		v.Labels.End = d.Labels.End
	}
	if v.ConfirmMessage == "" {
		v.ConfirmMessage = d.ConfirmMessage
	}
	return v
}
