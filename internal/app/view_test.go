package app_test

import (
	"fmt"

	"quiz-widget/internal/app"
	"quiz-widget/internal/domain"
)

// recordingView is an in-memory Presentation that records every call.
type recordingView struct {
	handler   app.InputHandler
	skeletons int
	rendered  []*domain.Question
	active    map[int]bool
	answered  map[int]bool
	times     []string
	confirms  []string
	selection []string
	results   []domain.Result
	calls     []string
}

func newRecordingView() *recordingView {
	return &recordingView{active: map[int]bool{}, answered: map[int]bool{}}
}

func (v *recordingView) Bind(h app.InputHandler) { v.handler = h }

func (v *recordingView) RenderSkeleton(count int) {
	v.skeletons++
	v.calls = append(v.calls, fmt.Sprintf("skeleton:%d", count))
}

func (v *recordingView) RenderQuestion(q *domain.Question) {
	v.rendered = append(v.rendered, q)
	v.calls = append(v.calls, "render:"+q.ID)
}

func (v *recordingView) SetNavMarker(index int, active bool) {
	if active {
		v.active[index] = true
	} else {
		delete(v.active, index)
	}
}

func (v *recordingView) SetAnsweredMarker(index int, answered bool) {
	v.answered[index] = answered
}

func (v *recordingView) ReadSelectedAnswers(*domain.Question) []string {
	return v.selection
}

func (v *recordingView) DisplayTime(formatted string) {
	v.times = append(v.times, formatted)
}

func (v *recordingView) Confirm(message string) {
	v.confirms = append(v.confirms, message)
}

func (v *recordingView) ShowResult(result domain.Result) {
	v.results = append(v.results, result)
}

// activeIndex returns the single highlighted nav entry, or -1.
func (v *recordingView) activeIndex() int {
	if len(v.active) != 1 {
		return -1
	}
	for i := range v.active {
		return i
	}
	return -1
}

func (v *recordingView) lastRendered() *domain.Question {
	if len(v.rendered) == 0 {
		return nil
	}
	return v.rendered[len(v.rendered)-1]
}

func sampleQuestions() []*domain.Question {
	return []*domain.Question{
		{ID: "q1", Text: "Pick one", Kind: domain.KindSingleChoice, Options: []string{"a", "b", "c"}},
		{ID: "q2", Text: "Pick many", Kind: domain.KindMultipleChoice, Options: []string{"x", "y", "z"}},
		{ID: "q3", Text: "Explain", Kind: domain.KindFreeText},
		{ID: "q4", Text: "Pick one again", Kind: domain.KindSingleChoice, Options: []string{"yes", "no"}},
	}
}
