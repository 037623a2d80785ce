package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterAgentCommandIsNotConstructed = errors.New(
		"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
	)
	ErrAgentNameIsRequired = errors.New("agent name is required")
)

// RegisterAgentCommand represents a request to register a participant in the
// agent economy: a fast-delivery agent, a pickup-delivery agent, or a
// pickup-site manager.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID   kernel.UUID
	name      string
	role      agent.Role
	territory string

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand creates a command to register a new agent.
func NewRegisterAgentCommand(agentID kernel.UUID, name string, role agent.Role, territory string) (RegisterAgentCommand, error) {
	command := RegisterAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAgentID(agentID),
		command.setName(name),
		command.setRole(role),
		command.setTerritory(territory),
	); err != nil {
		return RegisterAgentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

// AgentID returns the unique identifier for the agent.
func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Name returns the agent's display name.
func (c RegisterAgentCommand) Name() string {
	return c.name
}

// Role returns the agent's registrable role.
func (c RegisterAgentCommand) Role() agent.Role {
	return c.role
}

// Territory returns the territory code the agent serves.
func (c RegisterAgentCommand) Territory() string {
	return c.territory
}

func (c *RegisterAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *RegisterAgentCommand) setName(name string) error {
	if name == "" {
		return ErrAgentNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterAgentCommand) setRole(role agent.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

func (c *RegisterAgentCommand) setTerritory(territory string) error {
	if territory == "" {
		return ErrTerritoryIsRequired
	}

	c.territory = territory
	return nil
}
