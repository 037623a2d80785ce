package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand represents a participant's request to move an order
// along its lifecycle: who is acting (actor ID and role) and which event they
// report.
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	event   order.Event
	role    agent.Role
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a command to apply a lifecycle event.
func NewApplyTransitionCommand(
	orderID kernel.UUID,
	event order.Event,
	role agent.Role,
	actorID kernel.UUID,
) (ApplyTransitionCommand, error) {
	command := ApplyTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setEvent(event),
		command.setRole(role),
		command.setActorID(actorID),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being transitioned.
func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Event returns the lifecycle event being reported.
func (c ApplyTransitionCommand) Event() order.Event {
	return c.event
}

// Role returns the capacity the actor is acting in.
func (c ApplyTransitionCommand) Role() agent.Role {
	return c.role
}

// ActorID returns the identifier of the acting participant.
func (c ApplyTransitionCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setEvent(event order.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	c.event = event
	return nil
}

func (c *ApplyTransitionCommand) setRole(role agent.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

func (c *ApplyTransitionCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
