package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

func clientTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// responsesServer answers /v1/responses with text as the assistant's
// output_text.
func responsesServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		resp := map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": text},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	c, err := NewClient(clientTestLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func preferenceSchema() map[string]any {
	collection := map[string]any{"type": "array", "items": map[string]any{"type": "object"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"likes":     collection,
			"dislikes":  collection,
			"uncertain": collection,
		},
	}
}

func TestGenerateJSONStrict(t *testing.T) {
	srv := responsesServer(t, `{"likes": [{"item": "golf"}], "dislikes": [], "uncertain": []}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "gift_preferences", preferenceSchema())
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	likes, ok := obj["likes"].([]any)
	if !ok || len(likes) != 1 {
		t.Fatalf("likes = %#v, want one entry", obj["likes"])
	}
}

func TestGenerateJSONRecoversTruncatedOutput(t *testing.T) {
	// output cut by the token limit mid-way through dislikes; the intact
	// likes collection must survive
	truncated := `{"likes": [{"item": "golf", "weight": 0.9, "evidence": ["plays golf"]}], "dislikes": [{"item": "socks", "wei`
	srv := responsesServer(t, truncated)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "gift_preferences", preferenceSchema())
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	likes, ok := obj["likes"].([]any)
	if !ok || len(likes) != 1 {
		t.Fatalf("likes = %#v, want one entry", obj["likes"])
	}
	if _, present := obj["dislikes"]; present {
		t.Fatalf("truncated collection should be dropped, got %#v", obj["dislikes"])
	}
}
