package agent

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrAgentIsNotConstructed is returned when an Agent instance was not created
	// through the NewAgent or RestoreAgent factory methods.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent constructor")

	// ErrRoleIsNotRegistrable is returned when attempting to register an agent
	// with a role that does not participate in the agent economy.
	ErrRoleIsNotRegistrable = errors.New("role is not registrable as an agent")
)

// Agent represents a registered participant in the agent economy: a
// fast-delivery agent, a pickup-delivery agent, or a pickup-site manager.
//
// Agent invariants:
//   - Must have a valid unique identifier and a non-empty name
//   - Role must be one of the registrable roles
//   - Territory must be a non-empty territory code
//   - Can only be created through NewAgent or RestoreAgent
//
// Deactivated agents remain on record but may not claim orders.
type Agent struct {
	// id is the unique identifier for the agent
	id kernel.UUID

	// name is the agent's display name
	name string

	// role is the registrable capacity the agent acts in
	role Role

	// territory is the territory code the agent serves
	territory string

	// active reports whether the agent may currently claim orders
	active bool

	// isConstructed ensures the agent was created via a constructor
	isConstructed bool
}

// NewAgent creates a new active Agent with validation. This is the only way to
// register an agent, ensuring all business invariants are maintained.
func NewAgent(id kernel.UUID, name string, role Role, territory string) (*Agent, error) {
	agent := &Agent{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setRole(role),
		agent.setTerritory(territory),
	); err != nil {
		return nil, err
	}

	return agent, nil
}

// RestoreAgent reconstructs an Agent from persistence, including its activity
// flag. Used only by repository implementations.
func RestoreAgent(id kernel.UUID, name string, role Role, territory string, active bool) (*Agent, error) {
	agent, err := NewAgent(id, name, role, territory)
	if err != nil {
		return nil, err
	}

	agent.active = active
	return agent, nil
}

// Validate ensures the Agent instance was properly constructed.
func (a *Agent) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAgentIsNotConstructed
	}

	return nil
}

// IsEqual compares two agents by their unique identifiers.
func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() kernel.UUID {
	return a.id
}

// Name returns the agent's display name.
func (a *Agent) Name() string {
	return a.name
}

// Role returns the agent's registrable role.
func (a *Agent) Role() Role {
	return a.role
}

// Territory returns the territory code the agent serves.
func (a *Agent) Territory() string {
	return a.territory
}

// IsActive reports whether the agent may currently claim orders.
func (a *Agent) IsActive() bool {
	return a.active
}

// Deactivate marks the agent as inactive. Inactive agents keep their existing
// claims but may not take new ones.
func (a *Agent) Deactivate() {
	a.active = false
}

// Activate marks the agent as active again.
func (a *Agent) Activate() {
	a.active = true
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Agent) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if !role.IsRegistrable() {
		return fmt.Errorf("%w: %s", ErrRoleIsNotRegistrable, role)
	}
	a.role = role
	return nil
}

func (a *Agent) setTerritory(territory string) error {
	if territory == "" {
		return errs.NewValueIsRequiredError("territory")
	}
	a.territory = territory
	return nil
}
