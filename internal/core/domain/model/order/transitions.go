package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/agent"
)

var (
	// ErrIllegalTransition is the unwrap target for IllegalTransitionError.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrRoleNotAllowed is the unwrap target for RoleNotAllowedError.
	ErrRoleNotAllowed = errors.New("role is not allowed to perform this transition")
)

// IllegalTransitionError reports that an event is not valid from the order's
// current status. The caller must not mutate persisted state on rejection.
type IllegalTransitionError struct {
	Status Status
	Event  Event
}

// NewIllegalTransitionError creates an IllegalTransitionError naming the
// offending status and event.
func NewIllegalTransitionError(status Status, event Event) *IllegalTransitionError {
	return &IllegalTransitionError{Status: status, Event: event}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: event %q is not valid from status %q", e.Event, e.Status)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// RoleNotAllowedError reports that the (status, event) pair is legal but the
// acting role is not permitted to trigger it.
type RoleNotAllowedError struct {
	Status Status
	Event  Event
	Role   agent.Role
}

// NewRoleNotAllowedError creates a RoleNotAllowedError for the given attempt.
func NewRoleNotAllowedError(status Status, event Event, role agent.Role) *RoleNotAllowedError {
	return &RoleNotAllowedError{Status: status, Event: event, Role: role}
}

func (e *RoleNotAllowedError) Error() string {
	return fmt.Sprintf("role %q may not perform event %q from status %q", e.Role, e.Event, e.Status)
}

func (e *RoleNotAllowedError) Unwrap() error {
	return ErrRoleNotAllowed
}

// transitionKey identifies one cell of a category's transition table.
type transitionKey struct {
	status Status
	event  Event
}

// transitionRule is the single legal successor for a (status, event) pair plus
// the roles permitted to trigger it.
type transitionRule struct {
	next  Status
	roles []agent.Role
}

func (r transitionRule) allows(role agent.Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// statusesFor returns the ordered lifecycle path of a category, excluding
// CANCELLED (reachable from everywhere, part of no path).
func statusesFor(category Category) []Status {
	if category == CategoryPhysical {
		return []Status{
			StatusPending,
			StatusProcessing,
			StatusAssignedToDeliveryAgent,
			StatusEnRouteToSeller,
			StatusAtSeller,
			StatusPickedUp,
			StatusEnRouteToSite,
			StatusDepositedAtSite,
			StatusReadyForPickup,
			StatusDelivered,
			StatusCompleted,
		}
	}
	return []Status{
		StatusPending,
		StatusProcessing,
		StatusAssignedToDeliveryAgent,
		StatusEnRouteToSeller,
		StatusAtSeller,
		StatusPickedUp,
		StatusEnRouteToBuyer,
		StatusDelivered,
		StatusCompleted,
	}
}

// buildTransitions assembles a category table from its path-specific rules and
// adds the cancellation override for every status before the terminal success
// leg. Cancellation closes at DELIVERED: entering it settles the commission,
// and a cancelled order must never carry a payout record.
func buildTransitions(category Category, rules map[transitionKey]transitionRule) map[transitionKey]transitionRule {
	cancelRoles := []agent.Role{agent.RoleBuyer, agent.RoleSeller, agent.RoleAdmin}

	for _, status := range statusesFor(category) {
		if status.IsTerminalSuccess() {
			continue
		}
		rules[transitionKey{status, EventCancel}] = transitionRule{next: StatusCancelled, roles: cancelRoles}
	}

	return rules
}

var physicalTransitions = buildTransitions(CategoryPhysical, map[transitionKey]transitionRule{
	{StatusPending, EventAccept}: {StatusProcessing, []agent.Role{agent.RoleSeller, agent.RoleAdmin}},
	{StatusPending, EventClaim}:  {StatusAssignedToDeliveryAgent, []agent.Role{agent.RolePickupDeliveryAgent}},

	{StatusProcessing, EventClaim}: {StatusAssignedToDeliveryAgent, []agent.Role{agent.RolePickupDeliveryAgent}},

	{StatusAssignedToDeliveryAgent, EventRelease}:        {StatusProcessing, []agent.Role{agent.RoleAdmin}},
	{StatusAssignedToDeliveryAgent, EventDepartToSeller}: {StatusEnRouteToSeller, []agent.Role{agent.RolePickupDeliveryAgent}},

	{StatusEnRouteToSeller, EventArriveAtSeller}: {StatusAtSeller, []agent.Role{agent.RolePickupDeliveryAgent}},
	{StatusAtSeller, EventConfirmPickup}:         {StatusPickedUp, []agent.Role{agent.RolePickupDeliveryAgent}},
	{StatusPickedUp, EventDepartToSite}:          {StatusEnRouteToSite, []agent.Role{agent.RolePickupDeliveryAgent}},
	{StatusEnRouteToSite, EventConfirmDeposit}:   {StatusDepositedAtSite, []agent.Role{agent.RoleSiteManager}},
	{StatusDepositedAtSite, EventMarkReady}:      {StatusReadyForPickup, []agent.Role{agent.RoleSiteManager}},

	{StatusReadyForPickup, EventConfirmDelivery}: {StatusDelivered, []agent.Role{agent.RoleBuyer, agent.RoleSiteManager}},
	{StatusDelivered, EventComplete}:             {StatusCompleted, []agent.Role{agent.RoleAdmin}},
})

var localMarketTransitions = buildTransitions(CategoryLocalMarket, map[transitionKey]transitionRule{
	{StatusPending, EventAccept}: {StatusProcessing, []agent.Role{agent.RoleSeller, agent.RoleAdmin}},
	{StatusPending, EventClaim}:  {StatusAssignedToDeliveryAgent, []agent.Role{agent.RoleFastDeliveryAgent}},

	{StatusProcessing, EventClaim}: {StatusAssignedToDeliveryAgent, []agent.Role{agent.RoleFastDeliveryAgent}},

	{StatusAssignedToDeliveryAgent, EventRelease}:        {StatusProcessing, []agent.Role{agent.RoleAdmin}},
	{StatusAssignedToDeliveryAgent, EventDepartToSeller}: {StatusEnRouteToSeller, []agent.Role{agent.RoleFastDeliveryAgent}},

	{StatusEnRouteToSeller, EventArriveAtSeller}: {StatusAtSeller, []agent.Role{agent.RoleFastDeliveryAgent}},
	{StatusAtSeller, EventConfirmPickup}:         {StatusPickedUp, []agent.Role{agent.RoleFastDeliveryAgent}},
	{StatusPickedUp, EventDepartToBuyer}:         {StatusEnRouteToBuyer, []agent.Role{agent.RoleFastDeliveryAgent}},

	{StatusEnRouteToBuyer, EventConfirmDelivery}: {StatusDelivered, []agent.Role{agent.RoleBuyer, agent.RoleFastDeliveryAgent}},
	{StatusDelivered, EventComplete}:             {StatusCompleted, []agent.Role{agent.RoleAdmin}},
})

// transitionsFor returns the category's transition table.
func transitionsFor(category Category) map[transitionKey]transitionRule {
	if category == CategoryPhysical {
		return physicalTransitions
	}
	return localMarketTransitions
}

// NextStatus is the pure transition decision: given the category, the current
// status, an event, and the acting role, it returns the single legal successor
// status or rejects the attempt. It performs no I/O and mutates nothing.
//
// Rejections:
//   - IllegalTransitionError when the (status, event) pair has no successor in
//     the category's table (including any event from a terminal status)
//   - RoleNotAllowedError when the pair is legal but the role is not permitted
func NextStatus(category Category, status Status, event Event, role agent.Role) (Status, error) {
	if err := errors.Join(category.Validate(), status.Validate(), event.Validate(), role.Validate()); err != nil {
		return "", err
	}

	rule, ok := transitionsFor(category)[transitionKey{status, event}]
	if !ok {
		return "", NewIllegalTransitionError(status, event)
	}

	if !rule.allows(role) {
		return "", NewRoleNotAllowedError(status, event, role)
	}

	return rule.next, nil
}

// IsReplay reports whether the order's current status is already the successor
// the event would have produced, i.e. the requested transition has already been
// applied. Callers use this to make duplicate transition requests idempotent
// instead of rejecting them.
//
// Slot-binding events are never replays: claim and release bind or clear a
// role slot, and acknowledging one that never ran would misreport who holds
// the order. Each remaining event reaches its successor from exactly one path
// position per category, so successor matching identifies the event uniquely.
func IsReplay(category Category, current Status, event Event) bool {
	if event == EventClaim || event == EventRelease {
		return false
	}

	for key, rule := range transitionsFor(category) {
		if key.event == event && rule.next == current {
			return true
		}
	}
	return false
}
