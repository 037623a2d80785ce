package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotFinalizable is returned when commission finalization targets an
// order that has not been successfully fulfilled (including cancelled orders,
// which never produce a payout).
var ErrOrderIsNotFinalizable = errors.New("order is not in a terminal success status")

// FinalizeCommissionCommandHandler computes and persists the commission
// breakdown for a fulfilled order. Finalization is idempotent: if a record
// already exists the stored breakdown is returned unchanged, whether it was
// written by the delivery transition, a previous call, or the sweep job.
//
// The write-once guarantee is the store's uniqueness constraint on the order:
// two finalizers racing the same order both compute a record, but only one
// insert lands; the loser re-reads and returns the stored record.
type FinalizeCommissionCommandHandler struct {
	uowFactory LedgerUoWFactory
	calculator services.CommissionCalculator
}

// NewFinalizeCommissionCommandHandler creates a handler for commission finalization.
func NewFinalizeCommissionCommandHandler(
	uowFactory LedgerUoWFactory,
	calculator services.CommissionCalculator,
) FinalizeCommissionCommandHandler {
	return FinalizeCommissionCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
	}
}

// Handle processes the finalization command and returns the order's payout
// record, stored or freshly written.
func (h FinalizeCommissionCommandHandler) Handle(
	ctx context.Context,
	command FinalizeCommissionCommand,
) (*payout.Record, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.PayoutRepository().GetByOrderID(ctx, command.OrderID())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	finalizedOrder, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if !finalizedOrder.Status().IsTerminalSuccess() {
		return nil, fmt.Errorf("%w: status is %s", ErrOrderIsNotFinalizable, finalizedOrder.Status())
	}

	record, err := h.calculator.Calculate(services.CommissionInputFromOrder(finalizedOrder))
	if err != nil {
		return nil, err
	}

	if err = uow.PayoutRepository().Add(ctx, record); err != nil {
		if errors.Is(err, errs.ErrConcurrentModification) {
			// A rival finalizer won the insert. The failed write poisons this
			// transaction on some drivers, so re-read on a fresh unit of work.
			return h.readStored(ctx, command)
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (h FinalizeCommissionCommandHandler) readStored(
	ctx context.Context,
	command FinalizeCommissionCommand,
) (*payout.Record, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.PayoutRepository().GetByOrderID(ctx, command.OrderID())
}
