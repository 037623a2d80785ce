package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrAgentIsInactive is returned when a deactivated agent attempts a claim.
	ErrAgentIsInactive = errors.New("agent is deactivated and may not claim orders")

	// ErrTerritoryMismatch is returned when an agent claims an order outside the
	// territory it is registered to serve.
	ErrTerritoryMismatch = errors.New("agent does not serve the order's territory")
)

// ClaimOrderCommandHandler is the claim coordinator. It checks the claiming
// agent's eligibility, applies the claim on the aggregate, and persists the
// binding through a conditional write keyed on the status and empty slot the
// order was loaded with.
//
// The conditional write is the arbitration point: when two agents race on the
// same slot, exactly one write matches the stored row. The loser's write
// affects zero rows; the handler then re-reads the order to report whether the
// slot was taken (ErrAlreadyClaimed) or the order left the claimable pool.
type ClaimOrderCommandHandler struct {
	uowFactory ClaimUoWFactory
}

// NewClaimOrderCommandHandler creates a handler for claim coordination.
func NewClaimOrderCommandHandler(uowFactory ClaimUoWFactory) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim command and returns the order's status after the
// claim took effect.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) (order.Status, error) {
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

	claimingAgent, err := uow.AgentRepository().Get(ctx, command.AgentID())
	if err != nil {
		return "", err
	}

	claimedOrder, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return "", err
	}

	if err = checkEligibility(claimingAgent, claimedOrder); err != nil {
		return "", err
	}

	loadedStatus := claimedOrder.Status()

	if claimingAgent.Role().IsDeliveryRole() {
		err = h.claimDelivery(ctx, uow, claimedOrder, claimingAgent, loadedStatus)
	} else {
		err = h.claimSite(ctx, uow, claimedOrder, claimingAgent, loadedStatus)
	}
	if err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return claimedOrder.Status(), nil
}

func (h ClaimOrderCommandHandler) claimDelivery(
	ctx context.Context,
	uow ClaimUoW,
	claimedOrder *order.Order,
	claimingAgent *agent.Agent,
	loadedStatus order.Status,
) error {
	if err := claimedOrder.ClaimDelivery(claimingAgent.ID(), claimingAgent.Role()); err != nil {
		return err
	}

	err := uow.OrderRepository().BindDeliveryAgent(ctx, claimedOrder, loadedStatus)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrConcurrentModification) {
		return err
	}

	return h.classifyConflict(ctx, claimedOrder.ID(), true)
}

func (h ClaimOrderCommandHandler) claimSite(
	ctx context.Context,
	uow ClaimUoW,
	claimedOrder *order.Order,
	claimingAgent *agent.Agent,
	loadedStatus order.Status,
) error {
	if err := claimedOrder.ClaimSite(claimingAgent.ID()); err != nil {
		return err
	}

	err := uow.OrderRepository().BindSiteManager(ctx, claimedOrder, loadedStatus)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrConcurrentModification) {
		return err
	}

	return h.classifyConflict(ctx, claimedOrder.ID(), false)
}

// classifyConflict turns a lost conditional write into a claim rejection. The
// losing transaction is poisoned by the failed write on some drivers, so the
// re-read runs on a fresh unit of work.
func (h ClaimOrderCommandHandler) classifyConflict(
	ctx context.Context,
	orderID kernel.UUID,
	deliverySlot bool,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	if deliverySlot && current.DeliveryAgent() != nil {
		return order.ErrAlreadyClaimed
	}
	if !deliverySlot && current.SiteManager() != nil {
		return order.ErrAlreadyClaimed
	}

	return fmt.Errorf("%w: status is %s", order.ErrNotClaimable, current.Status())
}

// checkEligibility verifies the agent may take on the order at all: it must be
// active and registered to the order's territory. Role-to-category fit is
// enforced by the aggregate's claim methods.
func checkEligibility(claimingAgent *agent.Agent, claimedOrder *order.Order) error {
	if !claimingAgent.IsActive() {
		return ErrAgentIsInactive
	}

	if claimingAgent.Territory() != claimedOrder.Territory() {
		return fmt.Errorf("%w: agent serves %q, order is in %q",
			ErrTerritoryMismatch, claimingAgent.Territory(), claimedOrder.Territory())
	}

	return nil
}
