package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderAt restores an order at a given lifecycle position with optional role
// bindings, purchase 1000.00 and markup 0.21 (profit 210.00).
func orderAt(
	t *testing.T,
	category order.Category,
	status order.Status,
	deliveryAgentID, siteManagerID, referralID *kernel.UUID,
) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), category, "north",
		mustMoney(t, "1000.00"), decimal.NewFromFloat(0.21), mustMoney(t, "1210.00"),
		status, deliveryAgentID, siteManagerID, referralID,
	)
	require.NoError(t, err)
	return o
}

func TestApplyTransitionCommandHandler_Handle_AcceptSuccess(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusPending, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventAccept, agent.RoleSeller, kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("UpdateGuarded", ctx, testOrder, order.StatusPending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, status)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_DuplicateEventIsIdempotent(t *testing.T) {
	ctx := t.Context()
	// The order already sits in the status the event produces.
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusProcessing, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventAccept, agent.RoleSeller, kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, status)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
	uow.AssertNotCalled(t, "Commit")
}

func TestApplyTransitionCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusPending, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventConfirmDelivery, agent.RoleBuyer, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrIllegalTransition)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
}

func TestApplyTransitionCommandHandler_Handle_TerminalStatusRejectsEvents(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusCancelled, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventAccept, agent.RoleSeller, kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrIllegalTransition)
}

func TestApplyTransitionCommandHandler_Handle_ClaimEventRejected(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusProcessing, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventClaim, agent.RolePickupDeliveryAgent, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrClaimViaCoordinator)
}

func TestApplyTransitionCommandHandler_Handle_LosingClaimerGetsNoAcknowledgment(t *testing.T) {
	ctx := t.Context()
	// A rival already won the claim; the loser reports its own claim attempt.
	winnerID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusAssignedToDeliveryAgent, &winnerID, nil, nil)

	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventClaim, agent.RolePickupDeliveryAgent, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrClaimViaCoordinator)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
	uow.AssertNotCalled(t, "Commit")
}

func TestApplyTransitionCommandHandler_Handle_UnboundActorGetsNoReplayAcknowledgment(t *testing.T) {
	ctx := t.Context()
	// The bound agent already departed; a different agent reports the same
	// event. The duplicate must be rejected on the binding, not acknowledged.
	boundAgentID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusEnRouteToSeller, &boundAgentID, nil, nil)

	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventDepartToSeller, agent.RolePickupDeliveryAgent, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrActorIsNotBoundToOrder)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
}

func TestApplyTransitionCommandHandler_Handle_CancelAfterDeliveryRejected(t *testing.T) {
	ctx := t.Context()
	// The commission settled on entering DELIVERED; a cancellation afterwards
	// must not produce a cancelled order with a payout on record.
	agentID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryLocalMarket, order.StatusDelivered, &agentID, nil, nil)

	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventCancel, agent.RoleBuyer, kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrIllegalTransition)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
}

func TestApplyTransitionCommandHandler_Handle_ActorNotBound(t *testing.T) {
	ctx := t.Context()
	boundAgentID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusAssignedToDeliveryAgent, &boundAgentID, nil, nil)

	// A different agent reports the departure.
	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventDepartToSeller, agent.RolePickupDeliveryAgent, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrActorIsNotBoundToOrder)
	orderRepo.AssertNotCalled(t, "UpdateGuarded")
}

func TestApplyTransitionCommandHandler_Handle_DeliveryFinalizesCommission(t *testing.T) {
	ctx := t.Context()
	agentID := kernel.NewUUID()
	referralID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryLocalMarket, order.StatusEnRouteToBuyer, &agentID, nil, &referralID)

	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventConfirmDelivery, agent.RoleBuyer, kernel.NewUUID(),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("UpdateGuarded", ctx, testOrder, order.StatusEnRouteToBuyer).Return(nil).Once(),
		uow.On("PayoutRepository").Return(payoutRepo).Once(),
		payoutRepo.On("Add", ctx, mock.AnythingOfType("*payout.Record")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, status)

	// Local market defaults: delivery 50%, referral 10%, remainder to platform.
	record := payoutRepo.Calls[0].Arguments[1].(*payout.Record)
	assert.Equal(t, "210.00", record.PlatformProfit().String())
	assert.Equal(t, "105.00", record.DeliveryAgentAmount().String())
	assert.Equal(t, "0.00", record.SiteManagerAmount().String())
	assert.Equal(t, "21.00", record.ReferralAmount().String())
	assert.Equal(t, "84.00", record.PlatformAmount().String())
	payoutRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_NonDeliveryTransitionWritesNoPayout(t *testing.T) {
	ctx := t.Context()
	agentID := kernel.NewUUID()
	testOrder := orderAt(t, order.CategoryLocalMarket, order.StatusAssignedToDeliveryAgent, &agentID, nil, nil)

	cmd, err := commands.NewApplyTransitionCommand(
		testOrder.ID(), order.EventDepartToSeller, agent.RoleFastDeliveryAgent, agentID,
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("UpdateGuarded", ctx, testOrder, order.StatusAssignedToDeliveryAgent).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusEnRouteToSeller, status)
	payoutRepo.AssertNotCalled(t, "Add")
}

func TestApplyTransitionCommandHandler_Handle_LostRaceResolvedAsReplay(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusPending, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventAccept, agent.RoleSeller, kernel.NewUUID())
	require.NoError(t, err)

	// The rival writer already advanced the order to PROCESSING.
	storedOrder := orderAt(t, order.CategoryPhysical, order.StatusProcessing, nil, nil, nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("UpdateGuarded", ctx, testOrder, order.StatusPending).
			Return(errs.NewConcurrentModificationError("order", testOrder.ID().String())).
			Once(),
	)
	uow.On("Rollback", ctx).Return(nil)

	rereadRepo := new(MockOrderRepository)
	rereadUoW := new(MockLedgerUoW)
	mock.InOrder(
		rereadUoW.On("Begin", ctx).Return(nil).Once(),
		rereadUoW.On("OrderRepository").Return(rereadRepo).Once(),
		rereadRepo.On("Get", ctx, testOrder.ID()).Return(storedOrder, nil).Once(),
		rereadUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()
	factory.On("Create").Return(rereadUoW).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, status)
}

func TestApplyTransitionCommandHandler_Handle_LostRaceSurfacesConflict(t *testing.T) {
	ctx := t.Context()
	testOrder := orderAt(t, order.CategoryPhysical, order.StatusPending, nil, nil, nil)
	cmd, err := commands.NewApplyTransitionCommand(testOrder.ID(), order.EventAccept, agent.RoleSeller, kernel.NewUUID())
	require.NoError(t, err)

	// The rival writer cancelled the order instead.
	storedOrder := orderAt(t, order.CategoryPhysical, order.StatusCancelled, nil, nil, nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockLedgerUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("UpdateGuarded", ctx, testOrder, order.StatusPending).
			Return(errs.NewConcurrentModificationError("order", testOrder.ID().String())).
			Once(),
	)
	uow.On("Rollback", ctx).Return(nil)

	rereadRepo := new(MockOrderRepository)
	rereadUoW := new(MockLedgerUoW)
	mock.InOrder(
		rereadUoW.On("Begin", ctx).Return(nil).Once(),
		rereadUoW.On("OrderRepository").Return(rereadRepo).Once(),
		rereadRepo.On("Get", ctx, testOrder.ID()).Return(storedOrder, nil).Once(),
		rereadUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()
	factory.On("Create").Return(rereadUoW).Once()

	h := commands.NewApplyTransitionCommandHandler(factory, defaultCalculator(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)
}
