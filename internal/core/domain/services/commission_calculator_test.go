package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/policy"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, value string) kernel.Money {
	t.Helper()

	m, err := kernel.MoneyFromString(value)
	require.NoError(t, err)
	return m
}

func defaultCalculator(t *testing.T) services.CommissionCalculator {
	t.Helper()

	calculator, err := services.NewCommissionCalculator(policy.DefaultTable())
	require.NoError(t, err)
	return calculator
}

// baseInput is the canonical order economics used across the scenarios:
// purchase 1000.00 with a 21% markup sells at 1210.00, for a 210.00 profit.
func baseInput(t *testing.T, category order.Category) services.CommissionInput {
	t.Helper()

	return services.CommissionInput{
		OrderID:       kernel.NewUUID(),
		Category:      category,
		PurchasePrice: money(t, "1000.00"),
		Markup:        decimal.NewFromFloat(0.21),
	}
}

func assertSplit(
	t *testing.T,
	calculator services.CommissionCalculator,
	input services.CommissionInput,
	delivery, site, referral, platform string,
) {
	t.Helper()

	record, err := calculator.Calculate(input)

	require.NoError(t, err)
	assert.True(t, record.DeliveryAgentAmount().IsEqual(money(t, delivery)),
		"delivery agent: want %s, got %s", delivery, record.DeliveryAgentAmount())
	assert.True(t, record.SiteManagerAmount().IsEqual(money(t, site)),
		"site manager: want %s, got %s", site, record.SiteManagerAmount())
	assert.True(t, record.ReferralAmount().IsEqual(money(t, referral)),
		"referral: want %s, got %s", referral, record.ReferralAmount())
	assert.True(t, record.PlatformAmount().IsEqual(money(t, platform)),
		"platform: want %s, got %s", platform, record.PlatformAmount())

	total := record.DeliveryAgentAmount().
		Add(record.SiteManagerAmount()).
		Add(record.ReferralAmount()).
		Add(record.PlatformAmount())
	assert.True(t, total.IsEqual(record.PlatformProfit()), "amounts must conserve the profit")
}

func TestNewCommissionCalculator(t *testing.T) {
	t.Run("should create a calculator over a valid table", func(t *testing.T) {
		_, err := services.NewCommissionCalculator(policy.DefaultTable())

		require.NoError(t, err)
	})

	t.Run("should reject an unconstructed table", func(t *testing.T) {
		_, err := services.NewCommissionCalculator(policy.Table{})

		require.Error(t, err)
		assert.ErrorIs(t, err, policy.ErrTableIsNotConstructed)
	})
}

func TestCalculate_LocalMarket(t *testing.T) {
	calculator := defaultCalculator(t)

	t.Run("should split among all present participants", func(t *testing.T) {
		input := baseInput(t, order.CategoryLocalMarket)
		input.DeliveryAgentPresent = true
		input.ReferralPresent = true

		assertSplit(t, calculator, input, "105.00", "0.00", "21.00", "84.00")
	})

	t.Run("should forfeit an absent referral's share to the delivery agent", func(t *testing.T) {
		input := baseInput(t, order.CategoryLocalMarket)
		input.DeliveryAgentPresent = true

		// 50% own share plus the forfeited 10% referral share.
		assertSplit(t, calculator, input, "126.00", "0.00", "0.00", "84.00")
	})

	t.Run("should fold everything into the platform when nobody participated", func(t *testing.T) {
		input := baseInput(t, order.CategoryLocalMarket)

		assertSplit(t, calculator, input, "0.00", "0.00", "0.00", "210.00")
	})

	t.Run("should keep the referral share when only the delivery agent is absent", func(t *testing.T) {
		input := baseInput(t, order.CategoryLocalMarket)
		input.ReferralPresent = true

		// The delivery agent's 50% forfeits to the platform per the default policy.
		assertSplit(t, calculator, input, "0.00", "0.00", "21.00", "189.00")
	})
}

func TestCalculate_Physical(t *testing.T) {
	calculator := defaultCalculator(t)

	t.Run("should split among all present participants", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.DeliveryAgentPresent = true
		input.SiteManagerPresent = true
		input.ReferralPresent = true

		assertSplit(t, calculator, input, "84.00", "42.00", "21.00", "63.00")
	})

	t.Run("should forfeit absent roles to the platform", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.DeliveryAgentPresent = true

		assertSplit(t, calculator, input, "84.00", "0.00", "0.00", "126.00")
	})
}

func TestCalculate_ForfeitRouting(t *testing.T) {
	table, err := policy.NewTable(map[order.Category]policy.CategoryPolicy{
		order.CategoryPhysical: {
			DeliveryAgentPercent:   decimal.NewFromInt(40),
			SiteManagerPercent:     decimal.NewFromInt(20),
			ReferralPercent:        decimal.NewFromInt(10),
			DeliveryAgentForfeitTo: policy.ForfeitToSiteManager,
			SiteManagerForfeitTo:   policy.ForfeitToDeliveryAgent,
			ReferralForfeitTo:      policy.ForfeitToDeliveryAgent,
		},
	})
	require.NoError(t, err)

	calculator, err := services.NewCommissionCalculator(table)
	require.NoError(t, err)

	t.Run("should redirect a forfeited share to a present target", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.DeliveryAgentPresent = true
		input.SiteManagerPresent = true

		// The absent referral's 10% joins the delivery agent's 40%.
		assertSplit(t, calculator, input, "105.00", "42.00", "0.00", "63.00")
	})

	t.Run("should fall through to the platform when the target is absent too", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.SiteManagerPresent = true

		// Delivery forfeits 40% to the site manager; referral's 10% targets the
		// absent delivery agent and falls through to the platform.
		assertSplit(t, calculator, input, "0.00", "126.00", "0.00", "84.00")
	})
}

func TestCalculate_RoundingResidue(t *testing.T) {
	table, err := policy.NewTable(map[order.Category]policy.CategoryPolicy{
		order.CategoryLocalMarket: {
			DeliveryAgentPercent: decimal.NewFromFloat(33.33),
			ReferralPercent:      decimal.NewFromFloat(33.33),

			DeliveryAgentForfeitTo: policy.ForfeitToPlatform,
			SiteManagerForfeitTo:   policy.ForfeitToPlatform,
			ReferralForfeitTo:      policy.ForfeitToPlatform,
		},
	})
	require.NoError(t, err)

	calculator, err := services.NewCommissionCalculator(table)
	require.NoError(t, err)

	input := services.CommissionInput{
		OrderID:              kernel.NewUUID(),
		Category:             order.CategoryLocalMarket,
		PurchasePrice:        money(t, "1.00"),
		Markup:               decimal.NewFromFloat(0.10),
		DeliveryAgentPresent: true,
		ReferralPresent:      true,
	}

	record, err := calculator.Calculate(input)

	require.NoError(t, err)
	total := record.DeliveryAgentAmount().
		Add(record.SiteManagerAmount()).
		Add(record.ReferralAmount()).
		Add(record.PlatformAmount())
	assert.True(t, total.IsEqual(record.PlatformProfit()),
		"rounding residue must land on the platform line, conserving the profit")
	assert.False(t, record.PlatformAmount().IsNegative())
}

func TestCalculate_Determinism(t *testing.T) {
	calculator := defaultCalculator(t)

	input := baseInput(t, order.CategoryPhysical)
	input.DeliveryAgentPresent = true
	input.SiteManagerPresent = true
	input.ReferralPresent = true

	first, err := calculator.Calculate(input)
	require.NoError(t, err)

	for range 10 {
		again, err := calculator.Calculate(input)
		require.NoError(t, err)
		assert.True(t, first.IsEqual(again))
	}
}

func TestCalculate_InvalidInputs(t *testing.T) {
	calculator := defaultCalculator(t)

	t.Run("should reject an invalid order ID", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.OrderID = kernel.UUID{}

		_, err := calculator.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.Category = order.Category("DIGITAL")

		_, err := calculator.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})

	t.Run("should reject a non-positive purchase price", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.PurchasePrice = kernel.ZeroMoney()

		_, err := calculator.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})

	t.Run("should reject a negative markup", func(t *testing.T) {
		input := baseInput(t, order.CategoryPhysical)
		input.Markup = decimal.NewFromFloat(-0.1)

		_, err := calculator.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})

	t.Run("should reject a site manager on a category without a site leg", func(t *testing.T) {
		input := baseInput(t, order.CategoryLocalMarket)
		input.DeliveryAgentPresent = true
		input.SiteManagerPresent = true

		_, err := calculator.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})

	t.Run("should report a category missing from the policy table", func(t *testing.T) {
		table, err := policy.NewTable(map[order.Category]policy.CategoryPolicy{
			order.CategoryPhysical: {
				DeliveryAgentPercent:   decimal.NewFromInt(40),
				SiteManagerPercent:     decimal.NewFromInt(20),
				ReferralPercent:        decimal.NewFromInt(10),
				DeliveryAgentForfeitTo: policy.ForfeitToPlatform,
				SiteManagerForfeitTo:   policy.ForfeitToPlatform,
				ReferralForfeitTo:      policy.ForfeitToPlatform,
			},
		})
		require.NoError(t, err)

		narrow, err := services.NewCommissionCalculator(table)
		require.NoError(t, err)

		input := baseInput(t, order.CategoryLocalMarket)
		input.DeliveryAgentPresent = true

		_, err = narrow.Calculate(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCommissionInput)
	})
}

func TestCommissionInputFromOrder(t *testing.T) {
	referralID := kernel.NewUUID()
	o, err := order.NewOrder(
		kernel.NewUUID(), order.CategoryLocalMarket, "north",
		money(t, "1000.00"), decimal.NewFromFloat(0.21), &referralID,
	)
	require.NoError(t, err)

	err = o.ClaimDelivery(kernel.NewUUID(), order.CategoryLocalMarket.RequiredDeliveryRole())
	require.NoError(t, err)

	input := services.CommissionInputFromOrder(o)

	assert.True(t, input.OrderID.IsEqual(o.ID()))
	assert.Equal(t, order.CategoryLocalMarket, input.Category)
	assert.True(t, input.PurchasePrice.IsEqual(money(t, "1000.00")))
	assert.True(t, input.Markup.Equal(decimal.NewFromFloat(0.21)))
	assert.True(t, input.DeliveryAgentPresent)
	assert.False(t, input.SiteManagerPresent)
	assert.True(t, input.ReferralPresent)

	record, err := defaultCalculator(t).Calculate(input)
	require.NoError(t, err)
	assert.True(t, record.PlatformProfit().IsEqual(money(t, "210.00")))
}
