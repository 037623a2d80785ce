// Package agentrepo provides data transfer objects and mapping functions for
// the agent registry. It implements the repository pattern for the agent
// aggregate.
package agentrepo

import (
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting registered agents.
// Role and territory are indexed together: claim eligibility always filters on
// both.
type AgentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:varchar(32);index:idx_agents_role_territory"`
	Territory string    `gorm:"type:varchar(64);index:idx_agents_role_territory"`
	Active    bool
}

// TableName specifies the database table name for agent entities.
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	return AgentDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Role:      aggregate.Role().String(),
		Territory: aggregate.Territory(),
		Active:    aggregate.IsActive(),
	}
}

// toDomain converts a database DTO to an agent aggregate.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := agent.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	return agent.RestoreAgent(id, dto.Name, role, dto.Territory, dto.Active)
}
