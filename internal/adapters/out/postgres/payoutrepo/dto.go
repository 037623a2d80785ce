// Package payoutrepo provides data transfer objects and mapping functions for
// commission records. The order ID is the primary key, so the database itself
// enforces the write-once rule: at most one payout record per order.
package payoutrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutDTO represents the database structure for persisting commission records.
type PayoutDTO struct {
	OrderID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PlatformProfit      decimal.Decimal `gorm:"type:decimal(20,2)"`
	DeliveryAgentAmount decimal.Decimal `gorm:"type:decimal(20,2)"`
	SiteManagerAmount   decimal.Decimal `gorm:"type:decimal(20,2)"`
	ReferralAmount      decimal.Decimal `gorm:"type:decimal(20,2)"`
	PlatformAmount      decimal.Decimal `gorm:"type:decimal(20,2)"`
}

// TableName specifies the database table name for payout records.
func (PayoutDTO) TableName() string {
	return "payouts"
}

// fromDomain converts a payout record to its database representation.
func fromDomain(record *payout.Record) PayoutDTO {
	return PayoutDTO{
		OrderID:             record.OrderID().Bytes(),
		PlatformProfit:      record.PlatformProfit().Amount(),
		DeliveryAgentAmount: record.DeliveryAgentAmount().Amount(),
		SiteManagerAmount:   record.SiteManagerAmount().Amount(),
		ReferralAmount:      record.ReferralAmount().Amount(),
		PlatformAmount:      record.PlatformAmount().Amount(),
	}
}

// toDomain converts a database DTO to a payout record. NewRecord re-validates
// conservation on the way out, so a corrupted row cannot reach callers.
func toDomain(dto PayoutDTO) (*payout.Record, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return payout.NewRecord(
		orderID,
		kernel.NewMoney(dto.PlatformProfit),
		kernel.NewMoney(dto.DeliveryAgentAmount),
		kernel.NewMoney(dto.SiteManagerAmount),
		kernel.NewMoney(dto.ReferralAmount),
		kernel.NewMoney(dto.PlatformAmount),
	)
}
