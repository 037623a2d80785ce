// Package payout contains the realized commission record: the itemized,
// money-conserving split of an order's platform profit. A record is created
// exactly once, at the order's first transition into a terminal success state,
// and is immutable thereafter.
package payout

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not
	// created through the NewRecord factory method.
	ErrRecordIsNotConstructed = errors.New("payout Record must be created via NewRecord constructor")

	// ErrAmountsDoNotConserve is returned when the itemized amounts do not sum
	// exactly to the platform profit. Conservation is the record's defining
	// invariant; a record violating it must never be constructed or persisted.
	ErrAmountsDoNotConserve = errors.New("payout amounts do not sum to the platform profit")
)

// Record is the itemized commission breakdown for one order. Every role is
// listed whether or not it was paid: an absent role carries a zero amount and
// its nominal share appears inside another line per the forfeiture rule.
//
// Invariant: deliveryAgent + siteManager + referral + platform == platformProfit,
// exact to the smallest currency unit.
type Record struct {
	// orderID is the order this record settles
	orderID kernel.UUID

	// platformProfit is the distributed margin (selling − purchase)
	platformProfit kernel.Money

	// deliveryAgentAmount is the delivery agent's realized payout
	deliveryAgentAmount kernel.Money

	// siteManagerAmount is the site manager's realized payout
	siteManagerAmount kernel.Money

	// referralAmount is the referral source's realized payout
	referralAmount kernel.Money

	// platformAmount is the platform's own line, including any rounding residue
	platformAmount kernel.Money

	// isConstructed ensures the record was created via NewRecord
	isConstructed bool
}

// NewRecord creates a payout record with validation. Construction fails unless
// the four amounts are valid, non-negative, and sum exactly to the platform
// profit.
func NewRecord(
	orderID kernel.UUID,
	platformProfit kernel.Money,
	deliveryAgentAmount kernel.Money,
	siteManagerAmount kernel.Money,
	referralAmount kernel.Money,
	platformAmount kernel.Money,
) (*Record, error) {
	if err := errors.Join(
		orderID.Validate(),
		platformProfit.Validate(),
		deliveryAgentAmount.Validate(),
		siteManagerAmount.Validate(),
		referralAmount.Validate(),
		platformAmount.Validate(),
	); err != nil {
		return nil, err
	}

	amounts := map[string]kernel.Money{
		"delivery agent amount": deliveryAgentAmount,
		"site manager amount":   siteManagerAmount,
		"referral amount":       referralAmount,
		"platform amount":       platformAmount,
	}
	for name, amount := range amounts {
		if amount.IsNegative() {
			return nil, errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%s is negative", amount))
		}
	}

	total := deliveryAgentAmount.Add(siteManagerAmount).Add(referralAmount).Add(platformAmount)
	if !total.IsEqual(platformProfit) {
		return nil, fmt.Errorf("%w: items sum to %s, profit is %s",
			ErrAmountsDoNotConserve, total, platformProfit)
	}

	return &Record{
		orderID:             orderID,
		platformProfit:      platformProfit,
		deliveryAgentAmount: deliveryAgentAmount,
		siteManagerAmount:   siteManagerAmount,
		referralAmount:      referralAmount,
		platformAmount:      platformAmount,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}

	return nil
}

// IsEqual compares two records field by field. Used to verify that repeated
// finalization attempts produced the identical breakdown.
func (r *Record) IsEqual(other *Record) bool {
	return other != nil &&
		r.orderID.IsEqual(other.orderID) &&
		r.platformProfit.IsEqual(other.platformProfit) &&
		r.deliveryAgentAmount.IsEqual(other.deliveryAgentAmount) &&
		r.siteManagerAmount.IsEqual(other.siteManagerAmount) &&
		r.referralAmount.IsEqual(other.referralAmount) &&
		r.platformAmount.IsEqual(other.platformAmount)
}

// OrderID returns the settled order's identifier.
func (r *Record) OrderID() kernel.UUID {
	return r.orderID
}

// PlatformProfit returns the distributed margin.
func (r *Record) PlatformProfit() kernel.Money {
	return r.platformProfit
}

// DeliveryAgentAmount returns the delivery agent's realized payout.
func (r *Record) DeliveryAgentAmount() kernel.Money {
	return r.deliveryAgentAmount
}

// SiteManagerAmount returns the site manager's realized payout.
func (r *Record) SiteManagerAmount() kernel.Money {
	return r.siteManagerAmount
}

// ReferralAmount returns the referral source's realized payout.
func (r *Record) ReferralAmount() kernel.Money {
	return r.referralAmount
}

// PlatformAmount returns the platform's own line.
func (r *Record) PlatformAmount() kernel.Money {
	return r.platformAmount
}
