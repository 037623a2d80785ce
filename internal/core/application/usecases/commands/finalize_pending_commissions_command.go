package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrFinalizePendingCommissionsCommandIsNotConstructed = errors.New(
	"FinalizePendingCommissionsCommand must be created via NewFinalizePendingCommissionsCommand constructor",
)

// FinalizePendingCommissionsCommand represents a sweep request: find every
// fulfilled order that still has no payout record and finalize it. Used by the
// background job to catch orders whose inline finalization was missed.
type FinalizePendingCommissionsCommand struct {
	guard guard.ConstructorGuard
}

// NewFinalizePendingCommissionsCommand creates a sweep command.
func NewFinalizePendingCommissionsCommand() (FinalizePendingCommissionsCommand, error) {
	return FinalizePendingCommissionsCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FinalizePendingCommissionsCommand) Validate() error {
	return c.guard.Validate(ErrFinalizePendingCommissionsCommandIsNotConstructed)
}
