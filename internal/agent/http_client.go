package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dailygoals-backend/internal/protocol"
	appErrors "dailygoals-backend/pkg/errors"
)

// HTTPAgent talks to an external reasoning service over HTTP. The service
// receives the conversation plus generation options and must answer with a
// single protocol response object; anything else is a protocol parse
// error.
type HTTPAgent struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPAgent creates the client for the given inference endpoint.
func NewHTTPAgent(endpoint string, logger *zap.Logger) *HTTPAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPAgent{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger.Named("HTTPAgent"),
	}
}

type generateRequest struct {
	Messages     []Message `json:"messages"`
	Temperature  float64   `json:"temperature,omitempty"`
	MaxTokens    int       `json:"maxTokens,omitempty"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
}

// Generate posts the conversation and validates the reply through the
// command protocol.
func (a *HTTPAgent) Generate(ctx context.Context, messages []Message, opts Options) (*protocol.Response, error) {
	body, err := json.Marshal(generateRequest{
		Messages:     messages,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
		SystemPrompt: opts.SystemPrompt,
	})
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.NewInternal("failed to build generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, appErrors.NewInternal("reasoning service unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.NewInternal("failed to read reasoning response", err)
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("reasoning service error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, appErrors.NewInternal("reasoning service returned an error", nil)
	}

	return protocol.Parse(raw)
}
