package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplyTransitionCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()

	cmd, err := commands.NewApplyTransitionCommand(orderID, order.EventAccept, agent.RoleSeller, actorID)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.EventAccept, cmd.Event())
	assert.Equal(t, agent.RoleSeller, cmd.Role())
	assert.Equal(t, actorID, cmd.ActorID())
}

func TestNewApplyTransitionCommand_InvalidEvent(t *testing.T) {
	_, err := commands.NewApplyTransitionCommand(
		kernel.NewUUID(), order.Event("TELEPORT"), agent.RoleSeller, kernel.NewUUID(),
	)
	require.Error(t, err)
}

func TestNewApplyTransitionCommand_InvalidRole(t *testing.T) {
	_, err := commands.NewApplyTransitionCommand(
		kernel.NewUUID(), order.EventAccept, agent.Role("nobody"), kernel.NewUUID(),
	)
	require.Error(t, err)
}

func TestNewApplyTransitionCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewApplyTransitionCommand(
		kernel.UUID{}, order.EventAccept, agent.RoleSeller, kernel.NewUUID(),
	)
	require.Error(t, err)

	_, err = commands.NewApplyTransitionCommand(
		kernel.NewUUID(), order.EventAccept, agent.RoleSeller, kernel.UUID{},
	)
	require.Error(t, err)
}
