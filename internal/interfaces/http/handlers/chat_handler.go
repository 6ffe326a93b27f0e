// Package handlers provides the HTTP handlers for the daily goals API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dailygoals-backend/internal/agent"
	"dailygoals-backend/internal/service/goals"
	"dailygoals-backend/internal/stream"
	"dailygoals-backend/pkg/api"
	appErrors "dailygoals-backend/pkg/errors"
)

// ChatHandler services the agent-facing chat and voice routes.
type ChatHandler struct {
	service  *goals.Service
	defaults agent.Options
	validate *validator.Validate
	logger   *zap.Logger
}

// NewChatHandler creates the handler with the generation defaults applied
// to requests that do not override them.
func NewChatHandler(service *goals.Service, defaults agent.Options, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		service:  service,
		defaults: defaults,
		validate: validator.New(),
		logger:   logger.Named("ChatHandler"),
	}
}

func (h *ChatHandler) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*api.ChatRequest, bool) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "prompt is required")
		return nil, false
	}
	return &req, true
}

func (h *ChatHandler) options(req *api.ChatRequest) agent.Options {
	opts := h.defaults
	if req.Temperature != 0 {
		opts.Temperature = req.Temperature
	}
	if req.MaxTokens != 0 {
		opts.MaxTokens = req.MaxTokens
	}
	if req.SystemPrompt != "" {
		opts.SystemPrompt = req.SystemPrompt
	}
	return opts
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Chat(r.Context(), req.Prompt, h.options(req))
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		switch {
		case appErrors.IsValidation(err):
			api.Error(w, http.StatusBadRequest, err.Error())
		case appErrors.IsProtocol(err):
			api.Error(w, http.StatusBadGateway, err.Error())
		default:
			api.Error(w, http.StatusInternalServerError, "Chat request failed")
		}
		return
	}

	out := api.ChatResponse{Content: resp.Content}
	if resp.IsAction() {
		out.Object = resp.Action
	}
	api.Success(w, http.StatusOK, out)
}

// ChatStream handles POST /api/chat/stream as a server-sent-events
// session.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	sess, err := stream.NewSession(r.Context(), w, h.logger)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	h.service.HandlePrompt(r.Context(), req.Prompt, h.options(req), sess)
}

// VoiceStream handles POST /api/voice/stream: a multipart form with an
// audio part, answered as a streaming session whose first domain event is
// the transcription.
func (h *ChatHandler) VoiceStream(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "audio required")
		return
	}
	defer file.Close()

	filetype := "webm"
	if v := header.Header.Get("Content-Type"); v == "audio/wav" {
		filetype = "wav"
	}

	sess, err := stream.NewSession(r.Context(), w, h.logger)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	h.service.HandleVoice(r.Context(), file, filetype, h.defaults, sess)
}
