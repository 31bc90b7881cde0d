package handlers

import "net/http"

type FrontendHandler struct {
	page []byte
}

func NewFrontendHandler(page []byte) *FrontendHandler {
	return &FrontendHandler{page: page}
}

// Index serves the single-page chat client.
func (h *FrontendHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(h.page)
}
