package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order's full snapshot: economics, lifecycle
// status, bound participants, and the commission record if the order has been
// finalized.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order snapshot.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderPayoutResponse is the commission breakdown attached to a finalized
// order. Nil on the parent response means no record has been written yet.
type GetOrderPayoutResponse struct {
	PlatformProfit      kernel.Money
	DeliveryAgentAmount kernel.Money
	SiteManagerAmount   kernel.Money
	ReferralAmount      kernel.Money
	PlatformAmount      kernel.Money
}

// GetOrderQueryResponse represents one order's full read-model snapshot.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Category      order.Category
	Territory     string
	Status        order.Status
	PurchasePrice kernel.Money
	Markup        decimal.Decimal
	SellingPrice  kernel.Money

	DeliveryAgentID *kernel.UUID
	SiteManagerID   *kernel.UUID
	ReferralID      *kernel.UUID

	Payout *GetOrderPayoutResponse
}
