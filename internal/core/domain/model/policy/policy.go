package policy

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrTableIsNotConstructed is returned when a Table was not created through
// NewTable, DefaultTable, or LoadTable.
var ErrTableIsNotConstructed = errors.New("policy Table must be created via NewTable, DefaultTable, or LoadTable")

// ForfeitTarget names where a role's nominal share is routed when that role
// never participated in the order.
type ForfeitTarget string

const (
	// ForfeitToPlatform folds the forfeited share into the platform's own line.
	ForfeitToPlatform ForfeitTarget = "platform"

	// ForfeitToDeliveryAgent redirects the forfeited share to the delivery agent.
	ForfeitToDeliveryAgent ForfeitTarget = "delivery_agent"

	// ForfeitToSiteManager redirects the forfeited share to the site manager.
	ForfeitToSiteManager ForfeitTarget = "site_manager"
)

// Validate checks that the forfeit target is one of the closed set.
func (t ForfeitTarget) Validate() error {
	switch t {
	case ForfeitToPlatform, ForfeitToDeliveryAgent, ForfeitToSiteManager:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("forfeit target",
			fmt.Errorf("%q is not a valid forfeit target", string(t)))
	}
}

// CategoryPolicy is one row of the policy table: nominal percentages of the
// platform profit per role, and the target each role's share is routed to when
// the role was never filled. A share forfeited to a target that is itself
// absent falls through to the platform.
type CategoryPolicy struct {
	DeliveryAgentPercent decimal.Decimal
	SiteManagerPercent   decimal.Decimal
	ReferralPercent      decimal.Decimal

	DeliveryAgentForfeitTo ForfeitTarget
	SiteManagerForfeitTo   ForfeitTarget
	ReferralForfeitTo      ForfeitTarget
}

// validateFor checks the row's internal consistency against its category:
// percentages in [0, 100] summing to at most 100, valid forfeit targets, and no
// site-manager share on categories without a site leg.
func (p CategoryPolicy) validateFor(category order.Category) error {
	hundred := decimal.NewFromInt(100)

	percents := map[string]decimal.Decimal{
		"delivery agent percent": p.DeliveryAgentPercent,
		"site manager percent":   p.SiteManagerPercent,
		"referral percent":       p.ReferralPercent,
	}
	total := decimal.Zero
	for name, pct := range percents {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return errs.NewValueIsOutOfRangeError(name, pct.String(), "0", "100")
		}
		total = total.Add(pct)
	}
	if total.GreaterThan(hundred) {
		return errs.NewValueIsOutOfRangeError("sum of role percents", total.String(), "0", "100")
	}

	if err := errors.Join(
		p.DeliveryAgentForfeitTo.Validate(),
		p.SiteManagerForfeitTo.Validate(),
		p.ReferralForfeitTo.Validate(),
	); err != nil {
		return err
	}

	if !category.HasSiteLeg() && !p.SiteManagerPercent.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("site manager percent",
			fmt.Errorf("category %s has no pickup-site leg", category))
	}

	return nil
}

// Table is the commission policy table keyed by order category.
// It is immutable once constructed and safe for concurrent reads.
type Table struct {
	policies map[order.Category]CategoryPolicy

	guard guard.ConstructorGuard
}

// NewTable creates a validated policy table. Every entry is checked against its
// category's constraints; the table must cover at least one category.
func NewTable(policies map[order.Category]CategoryPolicy) (Table, error) {
	if len(policies) == 0 {
		return Table{}, errs.NewValueIsRequiredError("policies")
	}

	for category, p := range policies {
		if err := category.Validate(); err != nil {
			return Table{}, err
		}
		if err := p.validateFor(category); err != nil {
			return Table{}, fmt.Errorf("policy for category %s: %w", category, err)
		}
	}

	copied := make(map[order.Category]CategoryPolicy, len(policies))
	for category, p := range policies {
		copied[category] = p
	}

	return Table{
		policies: copied,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DefaultTable returns the compiled default policy. The percentages here are a
// placeholder pending a product decision; deployments should supply a policy
// file instead of relying on them.
func DefaultTable() Table {
	table, err := NewTable(map[order.Category]CategoryPolicy{
		order.CategoryPhysical: {
			DeliveryAgentPercent:   decimal.NewFromInt(40),
			SiteManagerPercent:     decimal.NewFromInt(20),
			ReferralPercent:        decimal.NewFromInt(10),
			DeliveryAgentForfeitTo: ForfeitToPlatform,
			SiteManagerForfeitTo:   ForfeitToPlatform,
			ReferralForfeitTo:      ForfeitToPlatform,
		},
		order.CategoryLocalMarket: {
			DeliveryAgentPercent:   decimal.NewFromInt(50),
			SiteManagerPercent:     decimal.Zero,
			ReferralPercent:        decimal.NewFromInt(10),
			DeliveryAgentForfeitTo: ForfeitToPlatform,
			SiteManagerForfeitTo:   ForfeitToPlatform,
			ReferralForfeitTo:      ForfeitToDeliveryAgent,
		},
	})
	if err != nil {
		// The default table is a compile-time constant; a construction failure
		// is a programming error.
		panic(err)
	}
	return table
}

// For returns the policy row for a category, or ObjectNotFoundError when the
// table carries no entry for it.
func (t Table) For(category order.Category) (CategoryPolicy, error) {
	if err := t.Validate(); err != nil {
		return CategoryPolicy{}, err
	}

	p, ok := t.policies[category]
	if !ok {
		return CategoryPolicy{}, errs.NewObjectNotFoundError("category policy", category.String())
	}
	return p, nil
}

// Validate ensures the table was properly constructed.
func (t Table) Validate() error {
	return t.guard.Validate(ErrTableIsNotConstructed)
}
