package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"maar-backend/internal/handlers"
	"maar-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	frontendHandler *handlers.FrontendHandler,
	allowedOrigin string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(allowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", frontendHandler.Index)
	r.Post("/chat", chatHandler.Chat)

	return r
}
