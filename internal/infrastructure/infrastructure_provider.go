package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"triage-server/internal/config"
	"triage-server/internal/domain/agent"
	"triage-server/internal/domain/conversation"
	"triage-server/internal/infrastructure/agentclient"
	"triage-server/internal/infrastructure/logger"
	"triage-server/internal/infrastructure/persistence"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the process logger from configuration.
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg)
}

// ProvideRepository provides the persistence adapter selected by STORAGE_BACKEND.
func ProvideRepository(cfg *config.Config, log zerolog.Logger) (conversation.Repository, error) {
	return persistence.NewFileStore(cfg.StorageDir, log)
}

// ProvideAgentClient provides the remote triage agent client.
func ProvideAgentClient(cfg *config.Config, log zerolog.Logger) agent.Client {
	return agentclient.NewClient(cfg, log)
}

// InfrastructureProvider provides all infrastructure components
var InfrastructureProvider = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideRepository,
	ProvideAgentClient,
)
