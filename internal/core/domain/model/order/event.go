package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Event names a lifecycle action attempted on an order. Events are the inputs
// of the state machine: each (status, event) pair has exactly one successor
// status per category, or is rejected.
type Event string

const (
	// EventAccept is the seller accepting a pending order.
	EventAccept Event = "accept"

	// EventClaim is a delivery agent winning the claim race. It is driven by the
	// claim coordinator, never by the generic transition operation, because it
	// additionally binds the agent to the role slot.
	EventClaim Event = "claim"

	// EventRelease is the explicit, externally triggered unbind of a stalled
	// delivery-agent claim. It re-admits the order to the claimable pool.
	EventRelease Event = "release"

	// EventDepartToSeller is the agent starting the pickup leg.
	EventDepartToSeller Event = "depart_to_seller"

	// EventArriveAtSeller is the agent reaching the seller.
	EventArriveAtSeller Event = "arrive_at_seller"

	// EventConfirmPickup is the agent confirming goods in hand.
	EventConfirmPickup Event = "confirm_pickup"

	// EventDepartToSite is the agent heading for the pickup site (physical only).
	EventDepartToSite Event = "depart_to_site"

	// EventConfirmDeposit is the site manager confirming the deposit (physical only).
	EventConfirmDeposit Event = "confirm_deposit"

	// EventMarkReady is the site manager staging the order for buyer pickup (physical only).
	EventMarkReady Event = "mark_ready"

	// EventDepartToBuyer is the agent starting the final delivery leg (local market).
	EventDepartToBuyer Event = "depart_to_buyer"

	// EventConfirmDelivery is the hand-off to the buyer.
	EventConfirmDelivery Event = "confirm_delivery"

	// EventComplete is the platform settling a delivered order.
	EventComplete Event = "complete"

	// EventCancel aborts the order from any status before DELIVERED.
	EventCancel Event = "cancel"
)

// getValidEvents returns the closed set of lifecycle events.
func getValidEvents() map[Event]struct{} {
	return map[Event]struct{}{
		EventAccept:          {},
		EventClaim:           {},
		EventRelease:         {},
		EventDepartToSeller:  {},
		EventArriveAtSeller:  {},
		EventConfirmPickup:   {},
		EventDepartToSite:    {},
		EventConfirmDeposit:  {},
		EventMarkReady:       {},
		EventDepartToBuyer:   {},
		EventConfirmDelivery: {},
		EventComplete:        {},
		EventCancel:          {},
	}
}

// EventFromString parses an event from its string representation.
func EventFromString(s string) (Event, error) {
	e := Event(s)
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e, nil
}

// Validate checks that the event is one of the closed set.
func (e Event) Validate() error {
	if _, ok := getValidEvents()[e]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a valid event", string(e)))
	}
	return nil
}

// String returns the event's string representation. Implements fmt.Stringer.
func (e Event) String() string {
	return string(e)
}
