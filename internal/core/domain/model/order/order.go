package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrAlreadyClaimed is returned when a claim targets a role slot that is
	// already bound to another participant.
	ErrAlreadyClaimed = errors.New("order is already claimed for this role slot")

	// ErrNotClaimable is returned when a claim targets an order whose current
	// state does not admit binding the requested role slot.
	ErrNotClaimable = errors.New("order is not claimable in its current state")

	// ErrClaimViaCoordinator is returned when the generic transition path is
	// asked to apply the claim event, which must bind a role slot atomically and
	// therefore only runs through the claim coordinator.
	ErrClaimViaCoordinator = errors.New("claim must be performed via the claim operation, not a generic transition")
)

// Order is the aggregate root of the fulfillment lifecycle. It combines the
// order's frozen economics, its current lifecycle status, and the participants
// bound to its role slots.
//
// Order invariants:
//   - Selling price is computed once at creation (purchase × (1 + markup)) and frozen
//   - At most one participant per role slot; slots are bound atomically by the
//     claim coordinator and cleared only by an explicit release
//   - Status changes only through transitions validated by the category's table
//   - The referral source is immutable once set at creation
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// category determines the route, the claiming role, and the policy row
	category Category

	// territory is the territory code used for claim eligibility filtering
	territory string

	// purchasePrice is what the platform pays the seller
	purchasePrice kernel.Money

	// markup is the platform margin factor applied at creation
	markup decimal.Decimal

	// sellingPrice is purchasePrice × (1 + markup), frozen at creation
	sellingPrice kernel.Money

	// status is the current lifecycle state
	status Status

	// deliveryAgentID is the agent holding the delivery leg (nil if unclaimed)
	deliveryAgentID *kernel.UUID

	// siteManagerID is the pickup-site manager (nil unless a physical order's
	// site slot has been claimed)
	siteManagerID *kernel.UUID

	// referralID is the referring participant, set at creation, immutable
	referralID *kernel.UUID

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an order at checkout with validation. The selling price is
// computed here and never recomputed. The order starts in StatusPending with no
// role slots bound.
func NewOrder(
	id kernel.UUID,
	category Category,
	territory string,
	purchasePrice kernel.Money,
	markup decimal.Decimal,
	referralID *kernel.UUID,
) (*Order, error) {
	order := &Order{
		status:        StatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCategory(category),
		order.setTerritory(territory),
		order.setEconomics(purchasePrice, markup),
		order.setReferral(referralID),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an order from persistence, including its status,
// frozen selling price, and role bindings. Used only by repository
// implementations; the stored selling price is trusted, not recomputed.
func RestoreOrder(
	id kernel.UUID,
	category Category,
	territory string,
	purchasePrice kernel.Money,
	markup decimal.Decimal,
	sellingPrice kernel.Money,
	status Status,
	deliveryAgentID *kernel.UUID,
	siteManagerID *kernel.UUID,
	referralID *kernel.UUID,
) (*Order, error) {
	order, err := NewOrder(id, category, territory, purchasePrice, markup, referralID)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(status.Validate(), sellingPrice.Validate()); err != nil {
		return nil, err
	}

	order.sellingPrice = sellingPrice
	order.status = status
	order.deliveryAgentID = deliveryAgentID
	order.siteManagerID = siteManagerID
	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Category returns the order's category.
func (o *Order) Category() Category {
	return o.category
}

// Territory returns the territory code the order belongs to.
func (o *Order) Territory() string {
	return o.territory
}

// PurchasePrice returns the price paid to the seller.
func (o *Order) PurchasePrice() kernel.Money {
	return o.purchasePrice
}

// Markup returns the margin factor applied at creation.
func (o *Order) Markup() decimal.Decimal {
	return o.markup
}

// SellingPrice returns the frozen selling price.
func (o *Order) SellingPrice() kernel.Money {
	return o.sellingPrice
}

// PlatformProfit returns sellingPrice − purchasePrice, the margin available
// for commission distribution.
func (o *Order) PlatformProfit() kernel.Money {
	return o.sellingPrice.Sub(o.purchasePrice)
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// DeliveryAgent returns the bound delivery agent's ID, or nil if unclaimed.
func (o *Order) DeliveryAgent() *kernel.UUID {
	return o.deliveryAgentID
}

// SiteManager returns the bound site manager's ID, or nil if unclaimed.
func (o *Order) SiteManager() *kernel.UUID {
	return o.siteManagerID
}

// Referral returns the referring participant's ID, or nil if the order has no
// referral source.
func (o *Order) Referral() *kernel.UUID {
	return o.referralID
}

// ClaimDelivery binds a delivery agent to the order's delivery slot and applies
// the claim transition. The in-memory check here is advisory; the authoritative
// at-most-one-winner guarantee is the repository's conditional write.
//
// Rejections:
//   - ErrAlreadyClaimed when the delivery slot is already bound
//   - IllegalTransitionError when the order is not in a claimable status
//   - RoleNotAllowedError when the role does not match the category's delivery role
func (o *Order) ClaimDelivery(agentID kernel.UUID, role agent.Role) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	if o.deliveryAgentID != nil {
		return ErrAlreadyClaimed
	}

	next, err := NextStatus(o.category, o.status, EventClaim, role)
	if err != nil {
		return err
	}

	o.status = next
	o.deliveryAgentID = &agentID
	return nil
}

// ClaimSite binds a pickup-site manager to the order's site slot. Site claims
// do not move the lifecycle: the slot may be bound any time before the deposit
// leg, and only the bound manager may later confirm the deposit.
//
// Rejections:
//   - ErrNotClaimable when the category has no site leg or the deposit leg has passed
//   - ErrAlreadyClaimed when the site slot is already bound
func (o *Order) ClaimSite(managerID kernel.UUID) error {
	if err := managerID.Validate(); err != nil {
		return err
	}

	if !o.category.HasSiteLeg() {
		return fmt.Errorf("%w: category %s has no pickup-site leg", ErrNotClaimable, o.category)
	}

	if o.siteManagerID != nil {
		return ErrAlreadyClaimed
	}

	if !canBindSiteManager(o.status) {
		return fmt.Errorf("%w: status is %s", ErrNotClaimable, o.status)
	}

	o.siteManagerID = &managerID
	return nil
}

// Apply validates and applies a lifecycle event via the category's transition
// table. The claim event is excluded: it binds a role slot and must run through
// ClaimDelivery under the coordinator's conditional write.
//
// A release clears the delivery slot as part of the transition so the order
// re-enters the claimable pool in the same mutation.
func (o *Order) Apply(event Event, role agent.Role) error {
	if event == EventClaim {
		return ErrClaimViaCoordinator
	}

	next, err := NextStatus(o.category, o.status, event, role)
	if err != nil {
		return err
	}

	if event == EventRelease {
		o.deliveryAgentID = nil
	}

	o.status = next
	return nil
}

// canBindSiteManager reports whether the site slot may still be bound: any
// point on the physical route before the deposit is confirmed.
func canBindSiteManager(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusAssignedToDeliveryAgent,
		StatusEnRouteToSeller, StatusAtSeller, StatusPickedUp, StatusEnRouteToSite:
		return true
	default:
		return false
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCategory(category Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	o.category = category
	return nil
}

func (o *Order) setTerritory(territory string) error {
	if territory == "" {
		return errs.NewValueIsRequiredError("territory")
	}
	o.territory = territory
	return nil
}

func (o *Order) setEconomics(purchasePrice kernel.Money, markup decimal.Decimal) error {
	if err := purchasePrice.Validate(); err != nil {
		return err
	}
	if !purchasePrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("purchase price",
			fmt.Errorf("%s is not greater than 0", purchasePrice))
	}
	if markup.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("markup",
			fmt.Errorf("%s is negative", markup))
	}

	o.purchasePrice = purchasePrice
	o.markup = markup
	o.sellingPrice = purchasePrice.MulFactor(decimal.NewFromInt(1).Add(markup))
	return nil
}

func (o *Order) setReferral(referralID *kernel.UUID) error {
	if referralID == nil {
		return nil
	}
	if err := referralID.Validate(); err != nil {
		return err
	}
	o.referralID = referralID
	return nil
}
