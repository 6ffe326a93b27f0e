//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"dailygoals-backend/internal/agent"
	"dailygoals-backend/internal/config"
)

// InitializeContainer builds the fully wired application container.
// The voice transcriber is optional; pass nil to disable the voice
// surface.
func InitializeContainer(ctx context.Context, cfg *config.Config, voice agent.Transcriber) (*Container, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
