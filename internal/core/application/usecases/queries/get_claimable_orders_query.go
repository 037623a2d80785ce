package queries

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetClaimableOrdersQueryIsNotConstructed = errors.New(
		"GetClaimableOrdersQuery must be created via NewGetClaimableOrdersQuery constructor",
	)

	// ErrRoleCannotClaim is returned when the requested role holds no claimable
	// slot: only delivery agents and site managers browse the claim pool.
	ErrRoleCannotClaim = errors.New("role cannot claim orders")
)

// GetClaimableOrdersQuery retrieves the pool of orders a given role may claim.
// Delivery agents see unclaimed orders of their category; site managers see
// physical orders whose site slot is still open. An optional territory narrows
// the pool to one territory code.
//
// Example:
//
//	query, err := NewGetClaimableOrdersQuery(agent.RoleFastDeliveryAgent, "north")
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
type GetClaimableOrdersQuery struct {
	role      agent.Role
	territory string

	guard guard.ConstructorGuard
}

// NewGetClaimableOrdersQuery creates a claim-pool query for the given role.
// Territory is optional; an empty string means all territories.
func NewGetClaimableOrdersQuery(role agent.Role, territory string) (GetClaimableOrdersQuery, error) {
	if err := role.Validate(); err != nil {
		return GetClaimableOrdersQuery{}, err
	}
	if !role.IsDeliveryRole() && role != agent.RoleSiteManager {
		return GetClaimableOrdersQuery{}, fmt.Errorf("%w: %s", ErrRoleCannotClaim, role)
	}

	return GetClaimableOrdersQuery{
		role:      role,
		territory: territory,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Role returns the claiming role the pool is computed for.
func (q GetClaimableOrdersQuery) Role() agent.Role {
	return q.role
}

// Territory returns the territory filter, empty for all territories.
func (q GetClaimableOrdersQuery) Territory() string {
	return q.territory
}

// Validate ensures the query was created through the constructor.
func (q GetClaimableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClaimableOrdersQueryIsNotConstructed)
}

// GetClaimableOrdersQueryResponse represents one claimable order in the pool.
type GetClaimableOrdersQueryResponse struct {
	ID           kernel.UUID
	Category     order.Category
	Territory    string
	Status       order.Status
	SellingPrice kernel.Money
}
