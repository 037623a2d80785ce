package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/pkg/errs"
)

// Category determines an order's delivery route, the delivery-agent role that
// may claim it, and which commission policy row applies. It is immutable after
// order creation.
type Category string

const (
	// CategoryPhysical is a stocked physical-goods order routed through a pickup site.
	CategoryPhysical Category = "PHYSICAL"

	// CategoryLocalMarket is a local-market order delivered directly to the buyer.
	CategoryLocalMarket Category = "LOCAL_MARKET"
)

// getValidCategories returns the closed set of order categories.
func getValidCategories() map[Category]struct{} {
	return map[Category]struct{}{
		CategoryPhysical:    {},
		CategoryLocalMarket: {},
	}
}

// CategoryFromString parses a category from its string representation.
func CategoryFromString(s string) (Category, error) {
	c := Category(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate checks that the category is one of the closed set.
func (c Category) Validate() error {
	if _, ok := getValidCategories()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a valid category", string(c)))
	}
	return nil
}

// String returns the category's string representation. Implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// RequiredDeliveryRole returns the delivery-agent role that may claim orders of
// this category: pickup-delivery agents for physical orders, fast-delivery
// agents for local-market orders.
func (c Category) RequiredDeliveryRole() agent.Role {
	if c == CategoryPhysical {
		return agent.RolePickupDeliveryAgent
	}
	return agent.RoleFastDeliveryAgent
}

// HasSiteLeg reports whether the category's route includes a pickup-site
// deposit and therefore a site-manager slot.
func (c Category) HasSiteLeg() bool {
	return c == CategoryPhysical
}
