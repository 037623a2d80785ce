package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/model/policy"

	"github.com/shopspring/decimal"
)

// ErrInvalidCommissionInput is the unwrap target for InvalidCommissionInputError.
var ErrInvalidCommissionInput = errors.New("invalid commission input")

// InvalidCommissionInputError reports malformed commission economics: a
// non-positive purchase price, a category without a policy row, or an
// impossible participant set. The call is fatal; no partial payout may be
// written.
type InvalidCommissionInputError struct {
	ParamName string
	Cause     error
}

// NewInvalidCommissionInputError creates an InvalidCommissionInputError for the
// offending parameter.
func NewInvalidCommissionInputError(paramName string, cause error) *InvalidCommissionInputError {
	return &InvalidCommissionInputError{ParamName: paramName, Cause: cause}
}

func (e *InvalidCommissionInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid commission input: %s (cause: %s)", e.ParamName, e.Cause)
	}
	return fmt.Sprintf("invalid commission input: %s", e.ParamName)
}

func (e *InvalidCommissionInputError) Unwrap() error {
	return ErrInvalidCommissionInput
}

// CommissionInput is the complete economic input of one distribution: the
// order's frozen economics plus which participant roles were actually realized.
type CommissionInput struct {
	OrderID       kernel.UUID
	Category      order.Category
	PurchasePrice kernel.Money
	Markup        decimal.Decimal

	DeliveryAgentPresent bool
	SiteManagerPresent   bool
	ReferralPresent      bool
}

// CommissionInputFromOrder derives the distribution input from an order
// aggregate: presence flags follow the order's bound role slots and referral
// source.
func CommissionInputFromOrder(o *order.Order) CommissionInput {
	return CommissionInput{
		OrderID:              o.ID(),
		Category:             o.Category(),
		PurchasePrice:        o.PurchasePrice(),
		Markup:               o.Markup(),
		DeliveryAgentPresent: o.DeliveryAgent() != nil,
		SiteManagerPresent:   o.SiteManager() != nil,
		ReferralPresent:      o.Referral() != nil,
	}
}

// CommissionCalculator is a domain service that splits an order's platform
// profit among the participants that actually touched the order.
//
// The calculator is pure and deterministic: identical inputs always yield
// identical records, with no hidden state or time dependence.
//
// Conservation: the itemized amounts always sum exactly to the platform profit.
// Each role share is rounded onto the minor-unit grid and capped at what
// remains undistributed; the platform's own line is the remainder, so any
// rounding residue lands there deterministically.
type CommissionCalculator struct {
	table policy.Table
}

// NewCommissionCalculator creates a calculator over a validated policy table.
func NewCommissionCalculator(table policy.Table) (CommissionCalculator, error) {
	if err := table.Validate(); err != nil {
		return CommissionCalculator{}, err
	}
	return CommissionCalculator{table: table}, nil
}

// Calculate produces the payout record for the given input.
//
// The split works on effective percentages: each role starts from its nominal
// policy percentage; an absent role's percentage is zeroed and redirected to
// its forfeit target when that target is present, otherwise it falls through to
// the platform line.
func (c CommissionCalculator) Calculate(input CommissionInput) (*payout.Record, error) {
	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	row, err := c.table.For(input.Category)
	if err != nil {
		return nil, NewInvalidCommissionInputError("category", err)
	}

	sellingPrice := input.PurchasePrice.MulFactor(decimal.NewFromInt(1).Add(input.Markup))
	profit := sellingPrice.Sub(input.PurchasePrice)

	deliveryPct, sitePct, referralPct := c.effectivePercents(input, row)

	remaining := profit
	deliveryAmount := allocateShare(profit, deliveryPct, &remaining)
	siteAmount := allocateShare(profit, sitePct, &remaining)
	referralAmount := allocateShare(profit, referralPct, &remaining)

	// remaining is the platform's line: its own margin plus any rounding residue.
	return payout.NewRecord(input.OrderID, profit, deliveryAmount, siteAmount, referralAmount, remaining)
}

// effectivePercents applies presence and forfeiture routing to the nominal
// policy percentages.
func (c CommissionCalculator) effectivePercents(
	input CommissionInput,
	row policy.CategoryPolicy,
) (deliveryPct, sitePct, referralPct decimal.Decimal) {
	present := map[policy.ForfeitTarget]bool{
		policy.ForfeitToDeliveryAgent: input.DeliveryAgentPresent,
		policy.ForfeitToSiteManager:   input.SiteManagerPresent,
		policy.ForfeitToPlatform:      true,
	}

	deliveryPct, sitePct, referralPct = decimal.Zero, decimal.Zero, decimal.Zero

	route := func(pct decimal.Decimal, target policy.ForfeitTarget) {
		if !present[target] {
			return // falls through to the platform remainder
		}
		switch target {
		case policy.ForfeitToDeliveryAgent:
			deliveryPct = deliveryPct.Add(pct)
		case policy.ForfeitToSiteManager:
			sitePct = sitePct.Add(pct)
		case policy.ForfeitToPlatform:
			// platform takes the remainder; nothing to accumulate
		}
	}

	if input.DeliveryAgentPresent {
		deliveryPct = deliveryPct.Add(row.DeliveryAgentPercent)
	} else {
		route(row.DeliveryAgentPercent, row.DeliveryAgentForfeitTo)
	}

	if input.SiteManagerPresent {
		sitePct = sitePct.Add(row.SiteManagerPercent)
	} else {
		route(row.SiteManagerPercent, row.SiteManagerForfeitTo)
	}

	if input.ReferralPresent {
		referralPct = referralPct.Add(row.ReferralPercent)
	} else {
		route(row.ReferralPercent, row.ReferralForfeitTo)
	}

	return deliveryPct, sitePct, referralPct
}

// allocateShare computes one role's rounded share of the profit and deducts it
// from the undistributed remainder. The share is capped at the remainder so the
// platform line can never go negative, whatever the rounding does.
func allocateShare(profit kernel.Money, percent decimal.Decimal, remaining *kernel.Money) kernel.Money {
	share := profit.Percent(percent)
	if share.Sub(*remaining).IsPositive() {
		share = *remaining
	}
	*remaining = remaining.Sub(share)
	return share
}

func (c CommissionCalculator) validateInput(input CommissionInput) error {
	if err := input.OrderID.Validate(); err != nil {
		return NewInvalidCommissionInputError("order ID", err)
	}
	if err := input.Category.Validate(); err != nil {
		return NewInvalidCommissionInputError("category", err)
	}
	if err := input.PurchasePrice.Validate(); err != nil {
		return NewInvalidCommissionInputError("purchase price", err)
	}
	if !input.PurchasePrice.IsPositive() {
		return NewInvalidCommissionInputError("purchase price",
			fmt.Errorf("%s is not greater than 0", input.PurchasePrice))
	}
	if input.Markup.IsNegative() {
		return NewInvalidCommissionInputError("markup",
			fmt.Errorf("%s is negative", input.Markup))
	}
	if input.SiteManagerPresent && !input.Category.HasSiteLeg() {
		return NewInvalidCommissionInputError("participants",
			fmt.Errorf("category %s has no pickup-site leg but a site manager is present", input.Category))
	}
	return nil
}
