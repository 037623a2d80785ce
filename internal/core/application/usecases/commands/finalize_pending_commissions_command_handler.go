package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// FinalizePendingCommissionsCommandHandler sweeps fulfilled orders that have no
// payout record yet and finalizes each one. Each order is finalized in its own
// transaction so one bad order cannot block the rest of the sweep; a lost
// insert race simply means someone else finalized first and counts as done.
type FinalizePendingCommissionsCommandHandler struct {
	uowFactory LedgerUoWFactory
	calculator services.CommissionCalculator
}

// NewFinalizePendingCommissionsCommandHandler creates a handler for the
// finalization sweep.
func NewFinalizePendingCommissionsCommandHandler(
	uowFactory LedgerUoWFactory,
	calculator services.CommissionCalculator,
) FinalizePendingCommissionsCommandHandler {
	return FinalizePendingCommissionsCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
	}
}

// Handle processes the sweep command and returns how many orders were finalized.
func (h FinalizePendingCommissionsCommandHandler) Handle(
	ctx context.Context,
	command FinalizePendingCommissionsCommand,
) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.listPending(ctx)
	if err != nil {
		return 0, err
	}

	finalized := 0
	var sweepErr error
	for _, orderID := range pending {
		if err = h.finalizeOne(ctx, orderID); err != nil {
			if errors.Is(err, errs.ErrConcurrentModification) {
				continue // a rival finalizer got there first
			}
			sweepErr = errors.Join(sweepErr, err)
			continue
		}
		finalized++
	}

	return finalized, sweepErr
}

func (h FinalizePendingCommissionsCommandHandler) listPending(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllFinalizable(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h FinalizePendingCommissionsCommandHandler) finalizeOne(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pendingOrder, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	record, err := h.calculator.Calculate(services.CommissionInputFromOrder(pendingOrder))
	if err != nil {
		return err
	}

	if err = uow.PayoutRepository().Add(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
