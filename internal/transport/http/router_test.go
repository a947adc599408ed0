package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestRouterEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected healthz %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(server.URL + "/quizzes/quiz-1")
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	var outline struct {
		ID        string `json:"id"`
		Questions []struct {
			Text    string   `json:"text"`
			Answers []string `json:"answers"`
		} `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&outline); err != nil {
		t.Fatalf("decode outline: %v", err)
	}
	resp.Body.Close()
	if outline.ID != "quiz-1" || len(outline.Questions) != 2 {
		t.Fatalf("unexpected outline %+v", outline)
	}

	resp, err = http.Get(server.URL + "/quizzes/nope")
	if err != nil {
		t.Fatalf("missing quiz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/results/unknown")
	if err != nil {
		t.Fatalf("missing result: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("ws without quiz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "quiz_sessions_active") {
		t.Fatalf("metrics output missing session gauge")
	}
}
