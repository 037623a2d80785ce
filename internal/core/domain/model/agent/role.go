package agent

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role identifies the capacity in which a participant acts on an order.
// It is a closed enum: every lifecycle transition names the roles permitted to
// perform it, and claims are only accepted from the delivery role matching the
// order's category (or a site manager claiming the pickup-site slot).
type Role string

const (
	// RoleBuyer is the purchasing customer. Buyers confirm final delivery.
	RoleBuyer Role = "buyer"

	// RoleSeller is the merchant side of the order. Sellers accept pending orders.
	RoleSeller Role = "seller"

	// RoleFastDeliveryAgent delivers local-market orders directly to the buyer.
	RoleFastDeliveryAgent Role = "fast_delivery_agent"

	// RolePickupDeliveryAgent carries physical orders from the seller to a pickup site.
	RolePickupDeliveryAgent Role = "pickup_delivery_agent"

	// RoleSiteManager operates a pickup site and handles the deposit leg of physical orders.
	RoleSiteManager Role = "site_manager"

	// RoleAdmin is the platform operator. Admins settle completed orders and
	// release stalled claims.
	RoleAdmin Role = "admin"
)

// getValidRoles returns the set of all acting roles.
func getValidRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleBuyer:               {},
		RoleSeller:              {},
		RoleFastDeliveryAgent:   {},
		RolePickupDeliveryAgent: {},
		RoleSiteManager:         {},
		RoleAdmin:               {},
	}
}

// RoleFromString parses an acting role from its string representation.
func RoleFromString(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate checks that the role is one of the closed set of acting roles.
func (r Role) Validate() error {
	if _, ok := getValidRoles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
	return nil
}

// String returns the role's string representation. Implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsRegistrable reports whether the role is stored in the agent registry.
// Only the three agent-economy roles register; buyers, sellers, and admins are
// authenticated elsewhere and appear here only as acting roles.
func (r Role) IsRegistrable() bool {
	return r == RoleFastDeliveryAgent || r == RolePickupDeliveryAgent || r == RoleSiteManager
}

// IsDeliveryRole reports whether the role holds an order's delivery leg.
func (r Role) IsDeliveryRole() bool {
	return r == RoleFastDeliveryAgent || r == RolePickupDeliveryAgent
}
