package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPAssistant_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.UserID != "alice" || req.Prompt != "hours?" {
			t.Errorf("upstream got %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "9 to 17"})
	}))
	defer srv.Close()

	a := &HTTPAssistant{URL: srv.URL}
	got, err := a.Answer(context.Background(), "alice", "hours?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "9 to 17" {
		t.Fatalf("answer = %q", got)
	}
}

func TestHTTPAssistant_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := &HTTPAssistant{URL: srv.URL}
	if _, err := a.Answer(context.Background(), "alice", "hours?"); err == nil {
		t.Fatal("expected error from 503 upstream")
	}
}
