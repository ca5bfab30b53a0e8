package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/scenario/providers/generator"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string, choices bool) string {
	body := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []any{},
	}
	if choices {
		body["choices"] = []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}}
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func newServer(t *testing.T, status int, body string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	var req chatRequest
	srv := newServer(t, http.StatusOK, completion(`{"stories": []}`, true), &req)

	g := New(
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL+"/v1/"),
		WithModel("test-model"),
		WithSystemPrompt("JSON only"),
	)
	out, err := g.Generate(context.Background(), "write stories")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `{"stories": []}` {
		t.Errorf("Generate() = %q", out)
	}
	if req.Model != "test-model" {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "write stories" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestGenerate_Empty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: completion("", false)},
		{name: "blank content", body: completion("   ", true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tt.body, nil)
			g := New(WithAPIKey("test-key"), WithBaseURL(srv.URL+"/v1/"))
			if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, generator.ErrEmptyOutput) {
				t.Errorf("error = %v, want ErrEmptyOutput", err)
			}
		})
	}
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error": {"message": "down"}}`, nil)
	g := New(WithAPIKey("test-key"), WithBaseURL(srv.URL+"/v1/"))
	_, err := g.Generate(context.Background(), "p")
	if err == nil || errors.Is(err, generator.ErrEmptyOutput) {
		t.Errorf("error = %v, want transport error", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envBaseURL, "")
	g := New()
	if g.Model() != DefaultModel || g.Name() != "openai" {
		t.Errorf("New() model = %q name = %q", g.Model(), g.Name())
	}
}
