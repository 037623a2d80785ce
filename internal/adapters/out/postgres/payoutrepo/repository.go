package payoutrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPayoutRepository implements PayoutRepository using GORM.
// Requires the connection to run with TranslateError enabled so a duplicate
// insert surfaces as gorm.ErrDuplicatedKey.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPayoutRepository creates a new GORM payout repository.
func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a new payout record. A primary-key collision means another
// finalizer already wrote this order's record and is reported as a concurrent
// modification; the stored record wins.
func (r *GormPayoutRepository) Add(ctx context.Context, record *payout.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrentModificationErrorWithCause("payout record", record.OrderID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(record.OrderID(), record)
	return nil
}

// GetByOrderID retrieves the payout record for an order.
func (r *GormPayoutRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payout.Record, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout record", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
