package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
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

func TestDescribeIndexRetriesServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":      "gifts",
			"host":      "gifts-abc.svc.pinecone.io",
			"dimension": 1536,
			"metric":    "cosine",
		})
	}))
	defer srv.Close()

	c, err := New(clientTestLogger(t), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	desc, err := c.DescribeIndex(context.Background(), "gifts")
	if err != nil {
		t.Fatalf("DescribeIndex: %v", err)
	}
	if desc.Host != "gifts-abc.svc.pinecone.io" {
		t.Fatalf("host = %q", desc.Host)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestDescribeIndexDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(clientTestLogger(t), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.DescribeIndex(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for 404")
	} else if !strings.Contains(err.Error(), "pinecone http 404") {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}
