package http

import (
	"encoding/json"

	"quiz-widget/internal/app"
	"quiz-widget/internal/domain"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type skeletonPayload struct {
	Count  int              `json:"count"`
	Labels app.ButtonLabels `json:"labels"`
}

type questionPayload struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
	Answers []string `json:"answers,omitempty"`
}

type markerPayload struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

type answeredPayload struct {
	Index    int  `json:"index"`
	Answered bool `json:"answered"`
}

type timePayload struct {
	Remaining string `json:"remaining"`
}

type confirmPayload struct {
	Message string `json:"message"`
}

type selectPayload struct {
	Index int `json:"index"`
}

type answerPayload struct {
	Answers []string `json:"answers"`
}

type confirmReply struct {
	OK bool `json:"ok"`
}

// wsView renders a session as JSON messages on a websocket. It lives on
// the connection's event loop; emit only hands messages to the writer.
type wsView struct {
	labels   app.ButtonLabels
	out      chan<- outboundMessage[any]
	gone     <-chan struct{}
	handler  app.InputHandler
	pending  []string
	skeleton int
}

func newWSView(cfg app.ViewConfig, out chan<- outboundMessage[any], gone <-chan struct{}) *wsView {
	return &wsView{labels: cfg.WithDefaults().Labels, out: out, gone: gone}
}

func (v *wsView) Bind(h app.InputHandler) { v.handler = h }

func (v *wsView) RenderSkeleton(count int) {
	if v.skeleton == count {
		return
	}
	v.skeleton = count
	v.emit("skeleton", skeletonPayload{Count: count, Labels: v.labels})
}

func (v *wsView) RenderQuestion(q *domain.Question) {
	v.emit("question", questionPayload{
		ID:      q.ID,
		Text:    q.Text,
		Kind:    string(q.Kind),
		Options: q.Options,
		Answers: q.Answers,
	})
}

func (v *wsView) SetNavMarker(index int, active bool) {
	v.emit("navMarker", markerPayload{Index: index, Active: active})
}

func (v *wsView) SetAnsweredMarker(index int, answered bool) {
	v.emit("answeredMarker", answeredPayload{Index: index, Answered: answered})
}

// ReadSelectedAnswers returns the answers carried by the answer message
// being dispatched.
func (v *wsView) ReadSelectedAnswers(*domain.Question) []string {
	return v.pending
}

func (v *wsView) DisplayTime(formatted string) {
	v.emit("time", timePayload{Remaining: formatted})
}

func (v *wsView) Confirm(message string) {
	v.emit("confirm", confirmPayload{Message: message})
}

func (v *wsView) ShowResult(result domain.Result) {
	v.emit("ended", result)
}

func (v *wsView) fail(message string) {
	v.emit("error", errorPayload{Message: message})
}

// dispatch turns one client message into controller input.
func (v *wsView) dispatch(msg inboundMessage) {
	if v.handler == nil {
		v.fail("session not ready")
		return
	}
	switch msg.Type {
	case "prev":
		v.handler.Prev()
	case "next":
		v.handler.Next()
	case "skip":
		v.handler.Skip()
	case "end":
		v.handler.End()
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			v.fail("invalid select payload")
			return
		}
		v.handler.Select(payload.Index)
	case "answer":
		var payload answerPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				v.fail("invalid answer payload")
				return
			}
		}
		v.pending = payload.Answers
		v.handler.Answer()
		v.pending = nil
	case "confirm":
		var payload confirmReply
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			v.fail("invalid confirm payload")
			return
		}
		v.handler.ConfirmEnd(payload.OK)
	default:
		v.fail("unsupported message type")
	}
}

func (v *wsView) emit(typ string, payload any) {
	select {
	case v.out <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-v.gone:
	}
}
