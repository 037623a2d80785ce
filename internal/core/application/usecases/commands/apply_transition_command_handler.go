package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// ErrActorIsNotBoundToOrder is returned when a delivery agent or site manager
// reports an event on an order whose matching role slot is bound to someone
// else (or not bound at all).
var ErrActorIsNotBoundToOrder = errors.New("actor is not bound to the order's role slot")

// ApplyTransitionCommandHandler moves orders along their lifecycle. Every
// accepted event is persisted through a guarded write keyed on the status the
// order was loaded with, so two actors racing the same order cannot both
// advance it.
//
// Duplicate reports from an actor entitled to the event are idempotent: when
// the order already sits in the status the event produces, the handler
// acknowledges without writing. Actors that fail the binding check are
// rejected before any replay acknowledgment.
//
// The first transition into DELIVERED finalizes the commission in the same
// transaction: the lifecycle advance and the payout record commit together or
// not at all.
type ApplyTransitionCommandHandler struct {
	uowFactory LedgerUoWFactory
	calculator services.CommissionCalculator
}

// NewApplyTransitionCommandHandler creates a handler for lifecycle transitions.
func NewApplyTransitionCommandHandler(
	uowFactory LedgerUoWFactory,
	calculator services.CommissionCalculator,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
	}
}

// Handle processes the transition command and returns the order's status after
// the event took effect (or was recognized as already applied).
func (h ApplyTransitionCommandHandler) Handle(
	ctx context.Context,
	command ApplyTransitionCommand,
) (order.Status, error) {
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

	transitionedOrder, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return "", err
	}

	if command.Event() == order.EventClaim {
		return "", order.ErrClaimViaCoordinator
	}

	if err = checkActorBinding(transitionedOrder, command.Role(), command); err != nil {
		return "", err
	}

	// Replay acknowledgment only after the actor proved it may act on the
	// order: a rival reporting an event the real holder already applied must
	// not receive a success response.
	if order.IsReplay(transitionedOrder.Category(), transitionedOrder.Status(), command.Event()) {
		return transitionedOrder.Status(), nil
	}

	loadedStatus := transitionedOrder.Status()

	if err = transitionedOrder.Apply(command.Event(), command.Role()); err != nil {
		return "", err
	}

	if err = uow.OrderRepository().UpdateGuarded(ctx, transitionedOrder, loadedStatus); err != nil {
		if errors.Is(err, errs.ErrConcurrentModification) {
			return h.resolveLostRace(ctx, command)
		}
		return "", err
	}

	if transitionedOrder.Status() == order.StatusDelivered {
		record, calcErr := h.calculator.Calculate(services.CommissionInputFromOrder(transitionedOrder))
		if calcErr != nil {
			return "", calcErr
		}
		if err = uow.PayoutRepository().Add(ctx, record); err != nil {
			return "", err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return transitionedOrder.Status(), nil
}

// resolveLostRace re-reads the order after a lost guarded write. If the rival
// writer applied the same event, the duplicate is acknowledged; otherwise the
// conflict surfaces to the caller, who may retry against fresh state.
func (h ApplyTransitionCommandHandler) resolveLostRace(
	ctx context.Context,
	command ApplyTransitionCommand,
) (order.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return "", err
	}

	if order.IsReplay(current.Category(), current.Status(), command.Event()) {
		return current.Status(), nil
	}

	return "", errs.NewConcurrentModificationError("order", command.OrderID().String())
}

// checkActorBinding enforces claim ownership on transitions: once a role slot
// is bound, only the bound participant may act in that capacity. Buyers,
// sellers, and admins hold no slot and pass through.
func checkActorBinding(o *order.Order, role agent.Role, command ApplyTransitionCommand) error {
	switch {
	case role.IsDeliveryRole():
		bound := o.DeliveryAgent()
		if bound == nil || !bound.IsEqual(command.ActorID()) {
			return ErrActorIsNotBoundToOrder
		}
	case role == agent.RoleSiteManager:
		bound := o.SiteManager()
		if bound == nil || !bound.IsEqual(command.ActorID()) {
			return ErrActorIsNotBoundToOrder
		}
	}

	return nil
}
