package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// All mutating methods that act on an existing order are conditional writes:
// they succeed only if the stored row still matches the state the aggregate was
// loaded from, and report ConcurrentModificationError otherwise. This is what
// turns the in-memory transition/claim checks into real mutual exclusion under
// concurrent request handlers.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateGuarded persists the aggregate's current state only if the stored
	// status still equals expectedStatus (the status the aggregate was loaded
	// with). A lost race reports ConcurrentModificationError and writes nothing.
	UpdateGuarded(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// BindDeliveryAgent persists a delivery claim: the new status and the
	// delivery-agent binding, only if the stored status still equals
	// expectedStatus and the delivery slot is still empty. This single
	// conditional write is the at-most-one-winner guarantee of the claim race.
	BindDeliveryAgent(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// BindSiteManager persists a site-slot claim, only if the stored status
	// still equals expectedStatus and the site slot is still empty.
	BindSiteManager(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// GetAllFinalizable retrieves orders in a terminal success status that have
	// no payout record yet. Used by the finalization sweep.
	GetAllFinalizable(ctx context.Context) ([]*order.Order, error)
}
