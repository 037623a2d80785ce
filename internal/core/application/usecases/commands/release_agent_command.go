package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReleaseAgentCommandIsNotConstructed = errors.New(
	"ReleaseAgentCommand must be created via NewReleaseAgentCommand constructor",
)

// ReleaseAgentCommand represents an operator's request to release a stalled
// delivery claim, returning the order to the claimable pool.
type ReleaseAgentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseAgentCommand creates a command to release an order's delivery claim.
func NewReleaseAgentCommand(orderID kernel.UUID) (ReleaseAgentCommand, error) {
	command := ReleaseAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return ReleaseAgentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseAgentCommand) Validate() error {
	return c.guard.Validate(ErrReleaseAgentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being released.
func (c ReleaseAgentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ReleaseAgentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
