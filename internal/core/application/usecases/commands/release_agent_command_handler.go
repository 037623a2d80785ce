package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
)

// ReleaseAgentCommandHandler releases a stalled delivery claim on behalf of an
// operator. The release clears the delivery slot and returns the order to
// PROCESSING in one guarded write, so it re-enters the claimable pool atomically.
// Releases are only legal while the claim is fresh; once the agent has departed
// the order must run its route or be cancelled.
type ReleaseAgentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewReleaseAgentCommandHandler creates a handler for claim releases.
func NewReleaseAgentCommandHandler(uowFactory OrderUoWFactory) ReleaseAgentCommandHandler {
	return ReleaseAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command and returns the order's status after the
// release.
func (h ReleaseAgentCommandHandler) Handle(ctx context.Context, command ReleaseAgentCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	releasedOrder, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return "", err
	}

	loadedStatus := releasedOrder.Status()

	if err = releasedOrder.Apply(order.EventRelease, agent.RoleAdmin); err != nil {
		return "", err
	}

	if err = uow.OrderRepository().UpdateGuarded(ctx, releasedOrder, loadedStatus); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return releasedOrder.Status(), nil
}
