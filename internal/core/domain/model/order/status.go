package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The set below is the
// superset across categories; EnRouteToSite, DepositedAtSite, and
// ReadyForPickup occur only on physical orders.
//
// Physical route:
//
//	PENDING ─> PROCESSING ─> ASSIGNED_TO_DELIVERY_AGENT ─> EN_ROUTE_TO_SELLER
//	  ─> AT_SELLER ─> PICKED_UP ─> EN_ROUTE_TO_SITE ─> DEPOSITED_AT_SITE
//	  ─> READY_FOR_PICKUP ─> DELIVERED ─> COMPLETED
//
// Local-market route:
//
//	PENDING ─> PROCESSING ─> ASSIGNED_TO_DELIVERY_AGENT ─> EN_ROUTE_TO_SELLER
//	  ─> AT_SELLER ─> PICKED_UP ─> EN_ROUTE_TO_BUYER ─> DELIVERED ─> COMPLETED
//
// CANCELLED is reachable from every status before DELIVERED. DELIVERED is a
// terminal success state: the commission settles on entering it, so the only
// transition left is the settle into COMPLETED; COMPLETED and CANCELLED admit
// no transitions at all.
type Status string

const (
	// StatusPending is the initial status at checkout, awaiting seller acceptance.
	StatusPending Status = "PENDING"

	// StatusProcessing indicates the seller accepted and the order awaits a claim.
	StatusProcessing Status = "PROCESSING"

	// StatusAssignedToDeliveryAgent indicates a delivery agent won the claim.
	StatusAssignedToDeliveryAgent Status = "ASSIGNED_TO_DELIVERY_AGENT"

	// StatusEnRouteToSeller indicates the agent is travelling to the seller.
	StatusEnRouteToSeller Status = "EN_ROUTE_TO_SELLER"

	// StatusAtSeller indicates the agent arrived at the seller.
	StatusAtSeller Status = "AT_SELLER"

	// StatusPickedUp indicates the agent holds the goods.
	StatusPickedUp Status = "PICKED_UP"

	// StatusEnRouteToSite indicates the agent is travelling to the pickup site (physical only).
	StatusEnRouteToSite Status = "EN_ROUTE_TO_SITE"

	// StatusDepositedAtSite indicates the site manager confirmed the deposit (physical only).
	StatusDepositedAtSite Status = "DEPOSITED_AT_SITE"

	// StatusReadyForPickup indicates the site prepared the order for buyer pickup (physical only).
	StatusReadyForPickup Status = "READY_FOR_PICKUP"

	// StatusEnRouteToBuyer indicates the agent is delivering to the buyer (local market).
	StatusEnRouteToBuyer Status = "EN_ROUTE_TO_BUYER"

	// StatusDelivered indicates the buyer received the order. Entering this
	// status triggers commission finalization.
	StatusDelivered Status = "DELIVERED"

	// StatusCompleted indicates the order is settled. Terminal.
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled indicates the order was cancelled. Terminal, no payout.
	StatusCancelled Status = "CANCELLED"
)

// getValidStatuses returns the closed superset of lifecycle statuses.
func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:                 {},
		StatusProcessing:              {},
		StatusAssignedToDeliveryAgent: {},
		StatusEnRouteToSeller:         {},
		StatusAtSeller:                {},
		StatusPickedUp:                {},
		StatusEnRouteToSite:           {},
		StatusDepositedAtSite:         {},
		StatusReadyForPickup:          {},
		StatusEnRouteToBuyer:          {},
		StatusDelivered:               {},
		StatusCompleted:               {},
		StatusCancelled:               {},
	}
}

// StatusFromString parses a status from its persisted string representation.
func StatusFromString(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate checks that the status is one of the closed superset.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the status's string representation. Implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are legal from this status.
// DELIVERED is not terminal in this sense: it still settles into COMPLETED.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsTerminalSuccess reports whether the status represents successful
// fulfillment. Orders in a terminal success status are eligible for commission
// finalization.
func (s Status) IsTerminalSuccess() bool {
	return s == StatusDelivered || s == StatusCompleted
}

// IsClaimable reports whether a delivery agent may claim an order in this status.
func (s Status) IsClaimable() bool {
	return s == StatusPending || s == StatusProcessing
}
