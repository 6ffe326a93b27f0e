package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"dailygoals-backend/internal/protocol"
	appErrors "dailygoals-backend/pkg/errors"
)

// Session is one bounded event sequence over a streaming channel. It
// enforces the required ordering: update_begin once, zero or more
// intermediate events, exactly one terminal response or error, and
// update_complete only after a successful terminal event.
//
// A session is bound to the request context: once the request is aborted
// no further events are written, but the session must still be released
// with Close.
type Session struct {
	ctx    context.Context
	w      io.Writer
	flush  func()
	logger *zap.Logger

	mu         sync.Mutex
	begun      bool
	terminated bool
	closed     bool
}

// NewSession starts a server-sent-events session on an HTTP response.
// It fails when the response writer cannot stream.
func NewSession(ctx context.Context, w http.ResponseWriter, logger *zap.Logger) (*Session, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, appErrors.NewInternal("response writer does not support streaming", nil)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return newSession(ctx, w, flusher.Flush, logger), nil
}

// NewWriterSession starts a session over a plain writer. Used by the
// non-HTTP callers and by tests.
func NewWriterSession(ctx context.Context, w io.Writer, logger *zap.Logger) *Session {
	return newSession(ctx, w, func() {}, logger)
}

func newSession(ctx context.Context, w io.Writer, flush func(), logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{ctx: ctx, w: w, flush: flush, logger: logger.Named("stream")}
}

// Begin emits the opening stage marker. It must be called exactly once,
// before any other event.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.begun {
		return appErrors.NewInternal("stream session already begun", nil)
	}
	if err := s.send(stageUpdateEvent{Type: EventStageUpdate, Status: StatusUpdateBegin}); err != nil {
		return err
	}
	s.begun = true
	return nil
}

// Transcription emits an intermediate transcription event. Valid only
// between Begin and the terminal event.
func (s *Session) Transcription(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun || s.terminated {
		return appErrors.NewInternal("transcription event outside the open stage", nil)
	}
	return s.send(transcriptionEvent{Type: EventTranscription, Text: text})
}

// Respond emits the terminal content event followed by the closing stage
// marker. After Respond the session accepts no further events.
func (s *Session) Respond(resp *protocol.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun || s.terminated {
		return appErrors.NewInternal("response event outside the open stage", nil)
	}
	s.terminated = true

	event := responseEvent{Type: EventResponse, Content: resp.Content}
	if resp.IsAction() {
		event.Object = resp.Action
	}
	if err := s.send(event); err != nil {
		return err
	}
	return s.send(stageUpdateEvent{Type: EventStageUpdate, Status: StatusUpdateComplete})
}

// Fail emits the single error event and terminates the sequence early;
// update_complete is skipped. Calling Fail after the terminal event is a
// logged no-op so error paths can call it unconditionally.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		s.logger.Debug("stream already terminated, dropping error event", zap.Error(err))
		return
	}
	s.terminated = true
	if sendErr := s.send(errorEvent{Type: EventError, Message: err.Error()}); sendErr != nil {
		s.logger.Warn("failed to write error event", zap.Error(sendErr))
	}
}

// Close releases the session. It is idempotent and safe to defer
// unconditionally, including after cancellation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.terminated = true
}

// send writes one event as a single SSE data frame. A cancelled request
// context suppresses the write: nothing is emitted after an abort.
func (s *Session) send(v any) error {
	if err := s.ctx.Err(); err != nil {
		return appErrors.Wrap(err, "stream cancelled")
	}
	if s.closed {
		return appErrors.NewInternal("stream session closed", nil)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return appErrors.NewInternal("failed to encode stream event", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return appErrors.NewInternal("failed to write stream event", err)
	}
	s.flush()
	return nil
}
