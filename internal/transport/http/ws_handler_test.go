package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-widget/internal/app"
	"quiz-widget/internal/domain"
	"quiz-widget/internal/infra/memory"
	"quiz-widget/internal/metrics"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server, "quiz-1")
	defer conn.Close()

	_, skeleton := readNext(conn, t, "skeleton")
	if skeleton["count"].(float64) != 2 {
		t.Fatalf("expected 2 questions, got %v", skeleton["count"])
	}
	expectMarker(t, conn, "navMarker", 0, true)
	_, question := readNext(conn, t, "question")
	if question["id"] != "q1" {
		t.Fatalf("expected q1, got %v", question["id"])
	}

	send(t, conn, "answer", map[string]any{"answers": []string{"4", "unknown"}})
	expectMarker(t, conn, "answeredMarker", 0, true)
	expectMarker(t, conn, "navMarker", 0, false)
	if _, q := readNext(conn, t, "question"); q["id"] != "q2" {
		t.Fatalf("expected q2, got %v", q["id"])
	}
	expectMarker(t, conn, "navMarker", 1, true)

	send(t, conn, "answer", map[string]any{"answers": []string{"  because  "}})
	expectMarker(t, conn, "answeredMarker", 1, true)
	expectMarker(t, conn, "navMarker", 1, false)
	expectMarker(t, conn, "navMarker", 1, true)
	if _, c := readNext(conn, t, "confirm"); c["message"] == "" {
		t.Fatalf("expected confirm message")
	}

	send(t, conn, "confirm", map[string]any{"ok": true})
	_, ended := readNext(conn, t, "ended")
	if ended["reason"] != string(domain.EndSubmitted) {
		t.Fatalf("expected submitted, got %v", ended["reason"])
	}
	questions := ended["questions"].([]any)
	first := questions[0].(map[string]any)["answers"].([]any)
	second := questions[1].(map[string]any)["answers"].([]any)
	if len(first) != 1 || first[0] != "4" || second[0] != "because" {
		t.Fatalf("unexpected answers %v / %v", first, second)
	}

	resp, err := http.Get(server.URL + "/results/" + ended["sessionId"].(string))
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWebSocketNavigationAndErrors(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "quiz-1")
	defer conn.Close()

	readNext(conn, t, "skeleton")
	expectMarker(t, conn, "navMarker", 0, true)
	readNext(conn, t, "question")

	send(t, conn, "prev", nil)
	expectMarker(t, conn, "navMarker", 0, false)
	if _, q := readNext(conn, t, "question"); q["id"] != "q2" {
		t.Fatalf("prev should wrap to q2, got %v", q["id"])
	}
	expectMarker(t, conn, "navMarker", 1, true)

	send(t, conn, "select", map[string]any{"index": -2})
	expectMarker(t, conn, "navMarker", 1, false)
	if _, q := readNext(conn, t, "question"); q["id"] != "q1" {
		t.Fatalf("select -2 should land on q1, got %v", q["id"])
	}
	expectMarker(t, conn, "navMarker", 0, true)

	send(t, conn, "shout", nil)
	if _, e := readNext(conn, t, "error"); !strings.Contains(e["message"].(string), "unsupported") {
		t.Fatalf("unexpected error %v", e["message"])
	}

	send(t, conn, "end", nil)
	if _, ended := readNext(conn, t, "ended"); ended["reason"] != string(domain.EndSubmitted) {
		t.Fatalf("unexpected reason %v", ended["reason"])
	}
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "missing")
	defer conn.Close()

	if _, e := readNext(conn, t, "error"); !strings.Contains(e["message"].(string), "not found") {
		t.Fatalf("unexpected error %v", e["message"])
	}
}

func TestDisconnectAbandonsSession(t *testing.T) {
	server, service := newTestServer(t)
	conn := dial(t, server, "quiz-1")
	readNext(conn, t, "skeleton")
	if service.ActiveSessions() != 1 {
		t.Fatalf("expected one active session, got %d", service.ActiveSessions())
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for service.ActiveSessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not released after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *app.SessionService) {
	t.Helper()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuiz()), time.Minute)
	m := metrics.New()
	service := app.NewSessionService(memory.NewSessionStore(), quizRepo, memory.NewResultStore(), app.ServiceOptions{Metrics: m})
	server := httptest.NewServer(NewRouter(service, m, nil))
	t.Cleanup(server.Close)
	return server, service
}

func dial(t *testing.T, server *httptest.Server, quizID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?quizId=" + quizID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func expectMarker(t *testing.T, conn *websocket.Conn, typ string, index int, flag bool) {
	t.Helper()
	_, payload := readNext(conn, t, typ)
	key := "active"
	if typ == "answeredMarker" {
		key = "answered"
	}
	if int(payload["index"].(float64)) != index || payload[key] != flag {
		t.Fatalf("expected %s{%d,%v}, got %v", typ, index, flag, payload)
	}
}

// readNext returns the next message, skipping countdown updates.
func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == "time" && expect != "time" {
			continue
		}
		if expect != "" && msg.Type != expect {
			t.Fatalf("expected type %s, got %s", expect, msg.Type)
		}
		payload := map[string]any{}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode %s payload: %v", msg.Type, err)
		}
		return msg.Type, payload
	}
}

func sampleQuiz() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:              "quiz-1",
			Title:           "Arithmetic",
			DurationMinutes: 1,
			Questions: []*domain.Question{
				{ID: "q1", Text: "What is 2 + 2?", Kind: domain.KindSingleChoice, Options: []string{"3", "4", "5"}},
				{ID: "q2", Text: "Why?", Kind: domain.KindFreeText},
			},
		},
	}
}
