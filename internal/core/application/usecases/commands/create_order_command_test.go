package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	price := mustMoney(t, "1000.00")
	markup := decimal.NewFromFloat(0.21)

	cmd, err := commands.NewCreateOrderCommand(id, order.CategoryPhysical, "north", price, markup, nil)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.CategoryPhysical, cmd.Category())
	assert.Equal(t, "north", cmd.Territory())
	assert.True(t, price.IsEqual(cmd.PurchasePrice()))
	assert.True(t, markup.Equal(cmd.Markup()))
	assert.Nil(t, cmd.ReferralID())
}

func TestNewCreateOrderCommand_WithReferral(t *testing.T) {
	referralID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.CategoryLocalMarket, "south",
		mustMoney(t, "500.00"), decimal.NewFromFloat(0.1), &referralID,
	)
	require.NoError(t, err)
	require.NotNil(t, cmd.ReferralID())
	assert.True(t, referralID.IsEqual(*cmd.ReferralID()))
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, order.CategoryPhysical, "north",
		mustMoney(t, "1000.00"), decimal.NewFromFloat(0.21), nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_EmptyTerritory(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.CategoryPhysical, "",
		mustMoney(t, "1000.00"), decimal.NewFromFloat(0.21), nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrTerritoryIsRequired)
}

func TestNewCreateOrderCommand_NonPositivePurchasePrice(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.CategoryPhysical, "north",
		kernel.ZeroMoney(), decimal.NewFromFloat(0.21), nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrPurchasePriceIsInvalid)
}

func TestNewCreateOrderCommand_NegativeMarkup(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.CategoryPhysical, "north",
		mustMoney(t, "1000.00"), decimal.NewFromFloat(-0.1), nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrMarkupIsInvalid)
}
