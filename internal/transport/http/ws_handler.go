package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"quiz-widget/internal/app"
	"quiz-widget/internal/eventloop"
	"quiz-widget/internal/logging"
)

type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewWSHandler(service *app.SessionService, log *logrus.Entry) *WSHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session
// per connection. Controller, countdown and client input share the
// connection's event loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := eventloop.New(64)
	go loop.Run(ctx)
	defer loop.Stop()

	send := make(chan outboundMessage[any], 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	view := newWSView(h.service.View(), send, writerDone)

	var session *app.Session
	opened := make(chan error, 1)
	loop.Post(func() {
		s, err := h.service.Open(r.Context(), quizID, view, loop)
		if err == nil {
			if err = h.service.Start(s); err != nil {
				h.service.Close(s)
			}
		}
		if err != nil {
			view.fail(err.Error())
		} else {
			session = s
		}
		opened <- err
	})

	if err := <-opened; err == nil {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			msg := inbound
			if !loop.Post(func() { view.dispatch(msg) }) {
				break
			}
		}

		closed := make(chan struct{})
		if !loop.Post(func() {
			h.service.Close(session)
			close(closed)
		}) {
			close(closed)
		}
		<-closed
	}

	close(send)
	<-writerDone
}
