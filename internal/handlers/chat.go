package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"maar-backend/internal/models"
)

const maxChatBodyBytes = 1 << 20

type replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	chatService replier
}

func NewChatHandler(chatService replier) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat relays one user message upstream and returns the extracted reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp(errTooLarge))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp(errInvalidBody))
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp(errMessageRequired))
		return
	}

	reply, err := h.chatService.Reply(r.Context(), req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// decodeChatRequest accepts JSON and urlencoded form bodies.
// An empty body decodes to an empty request, and a message that is not a
// JSON string is treated as missing.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (models.ChatRequest, error) {
	var req models.ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Message = r.PostForm.Get("message")
		return req, nil
	}

	var raw struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	if len(raw.Message) > 0 {
		if err := json.Unmarshal(raw.Message, &req.Message); err != nil {
			req.Message = ""
		}
	}
	return req, nil
}
