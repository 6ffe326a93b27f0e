// Package stream implements the ordered, cancellable event sequence used
// to service one chat or voice submission incrementally. Every event is a
// discrete JSON object with a type discriminator, delivered one per SSE
// data frame.
package stream

import "dailygoals-backend/internal/protocol"

// Event type discriminators.
const (
	EventStageUpdate   = "stage_update"
	EventTranscription = "transcription"
	EventResponse      = "response"
	EventError         = "error"
)

// Stage markers carried by stage_update events.
const (
	StatusUpdateBegin    = "update_begin"
	StatusUpdateComplete = "update_complete"
)

type stageUpdateEvent struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type transcriptionEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// responseEvent is the terminal content event: the agent's reply text plus
// the action object when the response carried one.
type responseEvent struct {
	Type    string           `json:"type"`
	Content string           `json:"content"`
	Object  *protocol.Action `json:"object,omitempty"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
