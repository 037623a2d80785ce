package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for the agent registry.
type AgentRepository interface {
	// Add persists a newly registered agent.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent (activity flag, territory).
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)
}
