package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetClaimableOrdersQueryHandler computes the claim pool directly from the
// database. The pool is advisory: it can go stale the moment it is read, and
// the claim operation's conditional write remains the only arbiter.
type GetClaimableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetClaimableOrdersQueryHandler creates a handler for claim-pool queries.
func NewGetClaimableOrdersQueryHandler(db *gorm.DB) GetClaimableOrdersQueryHandler {
	return GetClaimableOrdersQueryHandler{db: db}
}

// Handle executes the claim-pool query for the role in the query.
//
// Delivery agents see orders of their category in a claimable status with an
// unbound delivery slot. Site managers see physical orders whose site slot is
// unbound and whose deposit leg has not yet happened. Results are sorted by
// order ID for consistent output.
func (h GetClaimableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetClaimableOrdersQuery,
) ([]GetClaimableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses, category, slotColumn := poolFilter(query.Role())

	sql := `
		SELECT
			id,
			category,
			territory,
			status,
			selling_price
		FROM orders
		WHERE status IN ?
		  AND category = ?
		  AND ` + slotColumn + ` IS NULL
	`
	args := []any{statuses, category.String()}

	if query.Territory() != "" {
		sql += " AND territory = ?"
		args = append(args, query.Territory())
	}
	sql += " ORDER BY id"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetClaimableOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id           uuid.UUID
			categoryStr  string
			territory    string
			statusStr    string
			sellingPrice decimal.Decimal
		)

		if err = rows.Scan(&id, &categoryStr, &territory, &statusStr, &sellingPrice); err != nil {
			return nil, err
		}

		resp, buildErr := buildClaimableResponse(id, categoryStr, territory, statusStr, sellingPrice)
		if buildErr != nil {
			return nil, buildErr
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// poolFilter returns the status set, category, and open-slot column defining
// the claim pool for a role.
func poolFilter(role agent.Role) (statuses []string, category order.Category, slotColumn string) {
	if role == agent.RoleSiteManager {
		return []string{
			order.StatusPending.String(),
			order.StatusProcessing.String(),
			order.StatusAssignedToDeliveryAgent.String(),
			order.StatusEnRouteToSeller.String(),
			order.StatusAtSeller.String(),
			order.StatusPickedUp.String(),
			order.StatusEnRouteToSite.String(),
		}, order.CategoryPhysical, "site_manager_id"
	}

	category = order.CategoryLocalMarket
	if role == agent.RolePickupDeliveryAgent {
		category = order.CategoryPhysical
	}
	return []string{
		order.StatusPending.String(),
		order.StatusProcessing.String(),
	}, category, "delivery_agent_id"
}

func buildClaimableResponse(
	id uuid.UUID,
	categoryStr, territory, statusStr string,
	sellingPrice decimal.Decimal,
) (GetClaimableOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetClaimableOrdersQueryResponse{}, err
	}

	category, err := order.CategoryFromString(categoryStr)
	if err != nil {
		return GetClaimableOrdersQueryResponse{}, err
	}

	status, err := order.StatusFromString(statusStr)
	if err != nil {
		return GetClaimableOrdersQueryResponse{}, err
	}

	return GetClaimableOrdersQueryResponse{
		ID:           orderID,
		Category:     category,
		Territory:    territory,
		Status:       status,
		SellingPrice: kernel.NewMoney(sellingPrice),
	}, nil
}
