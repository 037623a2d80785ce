// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and database rows.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status, category, and territory are indexed for the claimable-pool and
// finalization-sweep queries; money columns use exact decimals.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Category        string          `gorm:"type:varchar(32);index"`
	Territory       string          `gorm:"type:varchar(64);index"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(20,2)"`
	Markup          decimal.Decimal `gorm:"type:decimal(12,6)"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(20,2)"`
	Status          string          `gorm:"type:varchar(32);index"`
	DeliveryAgentID *uuid.UUID      `gorm:"type:uuid;index"`
	SiteManagerID   *uuid.UUID      `gorm:"type:uuid"`
	ReferralID      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		Category:        aggregate.Category().String(),
		Territory:       aggregate.Territory(),
		PurchasePrice:   aggregate.PurchasePrice().Amount(),
		Markup:          aggregate.Markup(),
		SellingPrice:    aggregate.SellingPrice().Amount(),
		Status:          aggregate.Status().String(),
		DeliveryAgentID: optionalID(aggregate.DeliveryAgent()),
		SiteManagerID:   optionalID(aggregate.SiteManager()),
		ReferralID:      optionalID(aggregate.Referral()),
	}
}

// toDomain converts a database DTO to an order aggregate via RestoreOrder,
// trusting the stored selling price.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	category, err := order.CategoryFromString(dto.Category)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	deliveryAgentID, err := optionalUUID(dto.DeliveryAgentID)
	if err != nil {
		return nil, err
	}
	siteManagerID, err := optionalUUID(dto.SiteManagerID)
	if err != nil {
		return nil, err
	}
	referralID, err := optionalUUID(dto.ReferralID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, category, dto.Territory,
		kernel.NewMoney(dto.PurchasePrice), dto.Markup, kernel.NewMoney(dto.SellingPrice),
		status, deliveryAgentID, siteManagerID, referralID,
	)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
