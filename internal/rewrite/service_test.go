package rewrite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeProvider serves a minimal OpenAI-compatible chat completion endpoint.
func fakeProvider(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
}

func completionBody(content string) string {
	return `{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "` + content + `"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 42, "completion_tokens": 17, "total_tokens": 59}
	}`
}

func TestRewriteReturnsPrimedText(t *testing.T) {
	svc := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(completionBody(" we just shipped the new dashboard."))); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	result, err := svc.Rewrite(context.Background(), "We are pleased to announce...", 90)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !strings.HasPrefix(result.Text, ReplyPrimer) {
		t.Fatalf("expected output to start with %q, got %q", ReplyPrimer, result.Text)
	}
	if result.InputTokens != 42 || result.OutputTokens != 17 {
		t.Fatalf("expected token counts 42/17, got %d/%d", result.InputTokens, result.OutputTokens)
	}
	if result.TotalTokens() != 59 {
		t.Fatalf("expected 59 total tokens, got %d", result.TotalTokens())
	}
}

func TestRewriteProviderError(t *testing.T) {
	svc := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	if _, err := svc.Rewrite(context.Background(), "text", 50); !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestRewriteEmptyChoices(t *testing.T) {
	svc := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"id": "chatcmpl-test", "choices": [], "usage": {"prompt_tokens": 1, "completion_tokens": 0, "total_tokens": 1}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	if _, err := svc.Rewrite(context.Background(), "text", 50); !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure on empty choices, got %v", err)
	}
}
