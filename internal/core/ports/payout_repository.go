package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
)

// PayoutRepository defines the persistence contract for commission records.
// Records are write-once: the store enforces at most one record per order, so
// concurrent finalization attempts collapse to a single stored breakdown.
type PayoutRepository interface {
	// Add persists a new payout record. If a record for the same order already
	// exists, Add writes nothing and reports ConcurrentModificationError; the
	// caller should re-read and return the stored record.
	Add(ctx context.Context, record *payout.Record) error

	// GetByOrderID retrieves the payout record for an order, or
	// ObjectNotFoundError when the order has not been finalized.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payout.Record, error)
}
