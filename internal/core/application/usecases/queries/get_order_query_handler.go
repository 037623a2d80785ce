package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's snapshot, joined with its commission
// record when one exists.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order snapshot queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the snapshot query. Returns an ObjectNotFoundError when no
// order has the requested ID; a missing payout record is not an error and
// leaves the Payout field nil.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.category,
			o.territory,
			o.status,
			o.purchase_price,
			o.markup,
			o.selling_price,
			o.delivery_agent_id,
			o.site_manager_id,
			o.referral_id,
			p.platform_profit,
			p.delivery_agent_amount,
			p.site_manager_amount,
			p.referral_amount,
			p.platform_amount
		FROM orders o
		LEFT JOIN payouts p ON p.order_id = o.id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id            uuid.UUID
		categoryStr   string
		territory     string
		statusStr     string
		purchasePrice decimal.Decimal
		markup        decimal.Decimal
		sellingPrice  decimal.Decimal

		deliveryAgentID uuid.NullUUID
		siteManagerID   uuid.NullUUID
		referralID      uuid.NullUUID

		platformProfit      decimal.NullDecimal
		deliveryAgentAmount decimal.NullDecimal
		siteManagerAmount   decimal.NullDecimal
		referralAmount      decimal.NullDecimal
		platformAmount      decimal.NullDecimal
	)

	err := row.Scan(
		&id, &categoryStr, &territory, &statusStr,
		&purchasePrice, &markup, &sellingPrice,
		&deliveryAgentID, &siteManagerID, &referralID,
		&platformProfit, &deliveryAgentAmount, &siteManagerAmount, &referralAmount, &platformAmount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	category, err := order.CategoryFromString(categoryStr)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	status, err := order.StatusFromString(statusStr)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		ID:            orderID,
		Category:      category,
		Territory:     territory,
		Status:        status,
		PurchasePrice: kernel.NewMoney(purchasePrice),
		Markup:        markup,
		SellingPrice:  kernel.NewMoney(sellingPrice),
	}

	if resp.DeliveryAgentID, err = optionalParticipant(deliveryAgentID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.SiteManagerID, err = optionalParticipant(siteManagerID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.ReferralID, err = optionalParticipant(referralID); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if platformProfit.Valid {
		resp.Payout = &GetOrderPayoutResponse{
			PlatformProfit:      kernel.NewMoney(platformProfit.Decimal),
			DeliveryAgentAmount: kernel.NewMoney(deliveryAgentAmount.Decimal),
			SiteManagerAmount:   kernel.NewMoney(siteManagerAmount.Decimal),
			ReferralAmount:      kernel.NewMoney(referralAmount.Decimal),
			PlatformAmount:      kernel.NewMoney(platformAmount.Decimal),
		}
	}

	return resp, nil
}

// optionalParticipant converts a nullable uuid column into an optional
// domain identifier.
func optionalParticipant(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}

	participantID, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &participantID, nil
}
