package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"maar-backend/internal/models"
)

const (
	// SystemPrompt establishes the assistant persona for every call.
	SystemPrompt = "You are MAAR AI, a helpful assistant."

	// NoResponse is returned when no reply text can be extracted.
	NoResponse = "No response"

	maxResponseBytes = 4 << 20
	maxLoggedBody    = 512
)

// OpenAIService relays single-turn prompts to the OpenAI Responses API.
// It holds no per-request state and is safe for concurrent use.
type OpenAIService struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewOpenAIService(apiKey, baseURL, model string, timeout time.Duration) *OpenAIService {
	return &OpenAIService{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(baseURL, "/") + "/responses",
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Reply sends message as a lone user turn and returns the extracted reply text.
func (s *OpenAIService) Reply(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", &ValidationError{Fields: map[string]string{"message": "Message required"}}
	}

	reqBody := models.ResponsesRequest{
		Model: s.model,
		Input: []models.InputMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: message},
		},
	}

	var result models.ResponsesResult
	if err := s.doJSONRoundTrip(ctx, reqBody, &result); err != nil {
		return "", err
	}

	return extractReply(&result), nil
}

func (s *OpenAIService) doJSONRoundTrip(ctx context.Context, reqBody any, respBody any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return &UpstreamError{Err: s.redactErr(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{
			Status: resp.StatusCode,
			Body:   s.redact(truncate(string(body), maxLoggedBody)),
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return &UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// redact strips the credential from text that may end up in server logs.
func (s *OpenAIService) redact(text string) string {
	if s.apiKey == "" {
		return text
	}
	return strings.ReplaceAll(text, s.apiKey, "[REDACTED]")
}

func (s *OpenAIService) redactErr(err error) error {
	msg := err.Error()
	if redacted := s.redact(msg); redacted != msg {
		return fmt.Errorf("%s", redacted)
	}
	return err
}

// replyExtractors are tried in order; the first non-empty match wins.
var replyExtractors = []func(*models.ResponsesResult) (string, bool){
	outputText,
	firstContentText,
}

func extractReply(res *models.ResponsesResult) string {
	for _, extract := range replyExtractors {
		if text, ok := extract(res); ok {
			return text
		}
	}
	return NoResponse
}

func outputText(res *models.ResponsesResult) (string, bool) {
	return decodeText(res.OutputText)
}

// firstContentText reads output[0].content[0].text only.
func firstContentText(res *models.ResponsesResult) (string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(res.Output, &items); err != nil || len(items) == 0 {
		return "", false
	}

	var item models.OutputItem
	if err := json.Unmarshal(items[0], &item); err != nil {
		return "", false
	}

	var blocks []json.RawMessage
	if err := json.Unmarshal(item.Content, &blocks); err != nil || len(blocks) == 0 {
		return "", false
	}

	var block models.ContentBlock
	if err := json.Unmarshal(blocks[0], &block); err != nil {
		return "", false
	}
	return decodeText(block.Text)
}

// decodeText accepts only a non-empty JSON string; absent, null and
// wrong-typed values do not match.
func decodeText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil || text == "" {
		return "", false
	}
	return text, true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
