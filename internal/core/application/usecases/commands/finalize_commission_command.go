package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrFinalizeCommissionCommandIsNotConstructed = errors.New(
	"FinalizeCommissionCommand must be created via NewFinalizeCommissionCommand constructor",
)

// FinalizeCommissionCommand represents a request to compute and persist the
// commission breakdown for a successfully fulfilled order.
type FinalizeCommissionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFinalizeCommissionCommand creates a command to finalize an order's commission.
func NewFinalizeCommissionCommand(orderID kernel.UUID) (FinalizeCommissionCommand, error) {
	command := FinalizeCommissionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return FinalizeCommissionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c FinalizeCommissionCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeCommissionCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being finalized.
func (c FinalizeCommissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *FinalizeCommissionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
