package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"maar-backend/internal/models"
)

const testAPIKey = "sk-test-secret-key"

// newUpstream starts a fake Responses API that answers every call with status and body.
func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestReply_ExtractionOrder(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"top-level output_text", `{"output_text":"hi there"}`, "hi there"},
		{"output_text wins over nested", `{"output_text":"top","output":[{"content":[{"text":"nested"}]}]}`, "top"},
		{"nested content text", `{"output":[{"type":"message","content":[{"type":"output_text","text":"nested reply"}]}]}`, "nested reply"},
		{"empty output_text falls through", `{"output_text":"","output":[{"content":[{"text":"nested"}]}]}`, "nested"},
		{"only first item is inspected", `{"output":[{"content":[]},{"content":[{"text":"second"}]}]}`, NoResponse},
		{"empty output array", `{"output":[]}`, NoResponse},
		{"missing text field", `{"output":[{"content":[{"type":"refusal"}]}]}`, NoResponse},
		{"neither shape", `{"id":"resp_123"}`, NoResponse},
		{"null payload", `null`, NoResponse},
		{"output_text kept despite odd output", `{"output_text":"hi","output":"weird"}`, "hi"},
		{"output is a string", `{"output":"oops"}`, NoResponse},
		{"output is an object", `{"output":{}}`, NoResponse},
		{"content is a string", `{"output":[{"content":"x"}]}`, NoResponse},
		{"text is an object", `{"output_text":null,"output":[{"content":[{"text":{"value":"x"}}]}]}`, NoResponse},
		{"first item is a string", `{"output":["x",{"content":[{"text":"second"}]}]}`, NoResponse},
		{"output_text not a string", `{"output_text":42,"output":[{"content":[{"text":"nested"}]}]}`, "nested"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusOK, tc.body)
			svc := NewOpenAIService(testAPIKey, srv.URL, "gpt-4.1-mini", 5*time.Second)

			reply, err := svc.Reply(context.Background(), "hello")
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if reply != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, reply)
			}
		})
	}
}

func TestReply_SendsSingleTurnRequest(t *testing.T) {
	var got models.ResponsesRequest
	var authHeader, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode upstream request: %v", err)
		}
		w.Write([]byte(`{"output_text":"ok"}`))
	}))
	defer srv.Close()

	svc := NewOpenAIService(testAPIKey, srv.URL+"/v1/", "gpt-4.1-mini", 5*time.Second)
	if _, err := svc.Reply(context.Background(), "what is go?"); err != nil {
		t.Fatalf("Reply: %v", err)
	}

	if path != "/v1/responses" {
		t.Errorf("Expected path /v1/responses, got %q", path)
	}
	if authHeader != "Bearer "+testAPIKey {
		t.Errorf("Expected bearer credential, got %q", authHeader)
	}
	if got.Model != "gpt-4.1-mini" {
		t.Errorf("Expected model gpt-4.1-mini, got %q", got.Model)
	}
	if len(got.Input) != 2 {
		t.Fatalf("Expected 2 input messages, got %d", len(got.Input))
	}
	if got.Input[0].Role != "system" || got.Input[0].Content != SystemPrompt {
		t.Errorf("Unexpected system turn: %+v", got.Input[0])
	}
	if got.Input[1].Role != "user" || got.Input[1].Content != "what is go?" {
		t.Errorf("Unexpected user turn: %+v", got.Input[1])
	}
}

func TestReply_EmptyMessageSkipsUpstream(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK, `{"output_text":"unused"}`)
	svc := NewOpenAIService(testAPIKey, srv.URL, "gpt-4.1-mini", 5*time.Second)

	_, err := svc.Reply(context.Background(), "")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("Expected 0 upstream calls, got %d", n)
	}
}

func TestReply_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedStatus int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided: ` + testAPIKey + `"}}`, http.StatusUnauthorized},
		{"server error", http.StatusInternalServerError, `oops`, http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests, `{}`, http.StatusTooManyRequests},
		{"malformed payload", http.StatusOK, `{"output_text":`, http.StatusOK},
		{"wrong payload type", http.StatusOK, `["not","an","object"]`, http.StatusOK},
		{"not json", http.StatusOK, `<html>bad gateway</html>`, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, calls := newUpstream(t, tc.status, tc.body)
			svc := NewOpenAIService(testAPIKey, srv.URL, "gpt-4.1-mini", 5*time.Second)

			reply, err := svc.Reply(context.Background(), "hello")
			if reply != "" {
				t.Errorf("Expected empty reply, got %q", reply)
			}

			var upErr *UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("Expected *UpstreamError, got %v", err)
			}
			if upErr.Status != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, upErr.Status)
			}
			if strings.Contains(upErr.Error(), testAPIKey) {
				t.Errorf("Upstream error leaked the credential: %s", upErr.Error())
			}
			if n := atomic.LoadInt32(calls); n != 1 {
				t.Errorf("Expected exactly 1 upstream call, got %d", n)
			}
		})
	}
}

func TestReply_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewOpenAIService(testAPIKey, url, "gpt-4.1-mini", 5*time.Second)
	_, err := svc.Reply(context.Background(), "hello")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *UpstreamError, got %v", err)
	}
	if upErr.Status != 0 {
		t.Errorf("Expected status 0 for transport failure, got %d", upErr.Status)
	}
}

func TestReply_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	svc := NewOpenAIService(testAPIKey, srv.URL, "gpt-4.1-mini", 50*time.Millisecond)
	_, err := svc.Reply(context.Background(), "hello")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *UpstreamError on timeout, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncate(abcdefghij, 4) = %q", got)
	}
}
