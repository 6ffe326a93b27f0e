// Package di wires the application together. The container is constructed
// once per process via the wire-generated InitializeContainer; nothing
// here re-initializes lazily.
package di

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"

	"dailygoals-backend/internal/agent"
	"dailygoals-backend/internal/config"
	httpiface "dailygoals-backend/internal/interfaces/http"
	"dailygoals-backend/internal/interfaces/http/handlers"
	"dailygoals-backend/internal/repository"
	"dailygoals-backend/internal/service/goals"
	"dailygoals-backend/pkg/observability"
)

// Container holds the process-lifetime dependencies.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	RowStore repository.RowStore
	Service  *goals.Service
	Handler  http.Handler
}

// ProviderSet is the wire provider set for the whole application.
var ProviderSet = wire.NewSet(
	NewLogger,
	NewRowStore,
	NewAgent,
	observability.NewMetrics,
	ProvideService,
	ProvideAgentDefaults,
	handlers.NewChatHandler,
	handlers.NewGoalHandler,
	ProvideHandler,
	wire.Struct(new(Container), "*"),
)

// NewLogger builds the zap logger for the environment.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == config.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewRowStore picks the persistence backend: Supabase when configured,
// the in-memory store otherwise (development only; Validate enforces
// Supabase in production).
func NewRowStore(cfg *config.Config, logger *zap.Logger) (repository.RowStore, error) {
	if cfg.UseSupabase() {
		return repository.NewSupabaseRowStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Table, logger)
	}
	logger.Warn("no supabase configuration, using in-memory row store")
	return repository.NewMemoryRowStore(), nil
}

// NewAgent picks the reasoning backend: the HTTP client when an endpoint
// is configured, the mock otherwise.
func NewAgent(cfg *config.Config, logger *zap.Logger) agent.Agent {
	if cfg.Agent.Endpoint != "" {
		return agent.NewHTTPAgent(cfg.Agent.Endpoint, logger)
	}
	logger.Warn("no agent endpoint configured, using mock agent")
	return agent.NewMockAgent()
}

// ProvideService constructs the goals service and bootstraps the session
// graph from the row store.
func ProvideService(ctx context.Context, rows repository.RowStore, reasoner agent.Agent, voice agent.Transcriber, metrics *observability.Metrics, logger *zap.Logger) (*goals.Service, error) {
	service := goals.NewService(rows, reasoner, voice, metrics, logger)
	if err := service.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

// ProvideAgentDefaults extracts the generation defaults from config.
func ProvideAgentDefaults(cfg *config.Config) agent.Options {
	return agent.Options{
		Temperature: cfg.Agent.Temperature,
		MaxTokens:   cfg.Agent.MaxTokens,
	}
}

// ProvideHandler assembles the HTTP surface.
func ProvideHandler(chatHandler *handlers.ChatHandler, goalHandler *handlers.GoalHandler, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	return httpiface.NewRouter(chatHandler, goalHandler, metrics, logger)
}
