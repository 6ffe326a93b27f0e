// Package agent declares the ports for the external reasoning and voice
// collaborators. The backend never talks to a model directly; it hands the
// conversation to an Agent and validates whatever comes back through the
// command protocol.
package agent

import (
	"context"
	"io"

	"dailygoals-backend/internal/protocol"
)

// Message is one turn of the conversation sent to the reasoning service.
type Message struct {
	Role    string `json:"role"` // user, assistant or system
	Content string `json:"content"`
}

// Options tunes a single generation call.
type Options struct {
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Agent is the external reasoning service. Generate returns a structured
// protocol response; the implementation is responsible for constraining
// the model's output to the protocol schema.
type Agent interface {
	Generate(ctx context.Context, messages []Message, opts Options) (*protocol.Response, error)
}

// Transcriber converts captured audio into text. Transcription itself is
// an external concern; the core only consumes the resulting transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filetype string) (string, error)
}
