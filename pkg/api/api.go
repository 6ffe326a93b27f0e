// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"encoding/json"
	"net/http"
)

// ChatRequest is the expected body for POST /api/chat and /api/chat/stream.
type ChatRequest struct {
	Prompt       string  `json:"prompt" validate:"required"`
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"maxTokens,omitempty"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

// UpdateGoalRequest is the expected body for a PUT /api/goals/{date} request.
type UpdateGoalRequest struct {
	Goal      string     `json:"goal"`
	Completed bool       `json:"completed"`
	Summary   *string    `json:"summary,omitempty"`
	Todos     []TodoItem `json:"todos"`
}

// TodoItem is the API representation of a single todo line item.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// GoalResponse is the API representation of a single day node.
type GoalResponse struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Goal      string     `json:"goal"`
	Completed bool       `json:"completed"`
	Summary   *string    `json:"summary"`
	Todos     []TodoItem `json:"todos"`
}

// GraphResponse carries the full day graph for the canvas.
type GraphResponse struct {
	Nodes []GoalResponse `json:"nodes"`
	Edges []EdgeData     `json:"edges"`
}

type EdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ChatResponse is the non-streaming chat result.
type ChatResponse struct {
	Content string `json:"content"`
	Object  any    `json:"object,omitempty"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success formats a successful JSON response.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error formats a JSON error response.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
