package models

// ChatRequest is the payload sent to the chat endpoint.
// Each request carries a single user turn; no history is accepted.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply relayed from the upstream model.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the body returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
