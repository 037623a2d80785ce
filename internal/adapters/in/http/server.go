// Package http exposes the fulfillment use cases over a REST API. Handlers
// translate between the wire representation and commands/queries, and map
// domain rejections onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler        commands.CreateOrderCommandHandler
	registerAgentHandler      commands.RegisterAgentCommandHandler
	claimOrderHandler         commands.ClaimOrderCommandHandler
	applyTransitionHandler    commands.ApplyTransitionCommandHandler
	finalizeCommissionHandler commands.FinalizeCommissionCommandHandler
	releaseAgentHandler       commands.ReleaseAgentCommandHandler

	getClaimableOrdersHandler queries.GetClaimableOrdersQueryHandler
	getOrderHandler           queries.GetOrderQueryHandler
}

// NewServer creates an HTTP server over the given command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	registerAgentHandler commands.RegisterAgentCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	finalizeCommissionHandler commands.FinalizeCommissionCommandHandler,
	releaseAgentHandler commands.ReleaseAgentCommandHandler,
	getClaimableOrdersHandler queries.GetClaimableOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		registerAgentHandler:      registerAgentHandler,
		claimOrderHandler:         claimOrderHandler,
		applyTransitionHandler:    applyTransitionHandler,
		finalizeCommissionHandler: finalizeCommissionHandler,
		releaseAgentHandler:       releaseAgentHandler,
		getClaimableOrdersHandler: getClaimableOrdersHandler,
		getOrderHandler:           getOrderHandler,
	}
}

// RegisterRoutes attaches the API routes to an Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/claimable", s.GetClaimableOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/claim", s.ClaimOrder)
	api.POST("/orders/:id/transitions", s.ApplyTransition)
	api.POST("/orders/:id/commission", s.FinalizeCommission)
	api.POST("/orders/:id/release", s.ReleaseAgent)

	api.POST("/agents", s.RegisterAgent)
}

// Error is the wire representation of a failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderRequest is the body of POST /orders.
type NewOrderRequest struct {
	Category      string  `json:"category"`
	Territory     string  `json:"territory"`
	PurchasePrice string  `json:"purchase_price"`
	Markup        string  `json:"markup"`
	ReferralID    *string `json:"referral_id,omitempty"`
}

// OrderCreatedResponse is the body returned by POST /orders.
type OrderCreatedResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	category, err := order.CategoryFromString(req.Category)
	if err != nil {
		return badRequest(ctx, "invalid category: "+req.Category)
	}

	purchasePrice, err := kernel.MoneyFromString(req.PurchasePrice)
	if err != nil {
		return badRequest(ctx, "invalid purchase price: "+req.PurchasePrice)
	}

	markup, err := decimal.NewFromString(req.Markup)
	if err != nil {
		return badRequest(ctx, "invalid markup: "+req.Markup)
	}

	var referralID *kernel.UUID
	if req.ReferralID != nil {
		id, parseErr := kernel.UUIDFromString(*req.ReferralID)
		if parseErr != nil {
			return badRequest(ctx, "invalid referral ID: "+*req.ReferralID)
		}
		referralID = &id
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, category, req.Territory, purchasePrice, markup, referralID)
	if err != nil {
		return badRequest(ctx, "invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreatedResponse{ID: orderID.String()})
}

// NewAgentRequest is the body of POST /agents.
type NewAgentRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Territory string `json:"territory"`
}

// AgentRegisteredResponse is the body returned by POST /agents.
type AgentRegisteredResponse struct {
	ID string `json:"id"`
}

// RegisterAgent handles POST /api/v1/agents.
func (s *Server) RegisterAgent(ctx echo.Context) error {
	var req NewAgentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	role, err := agent.RoleFromString(req.Role)
	if err != nil {
		return badRequest(ctx, "invalid role: "+req.Role)
	}

	agentID := kernel.NewUUID()
	cmd, err := commands.NewRegisterAgentCommand(agentID, req.Name, role, req.Territory)
	if err != nil {
		return badRequest(ctx, "invalid agent data: "+err.Error())
	}

	if err = s.registerAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, AgentRegisteredResponse{ID: agentID.String()})
}

// ClaimRequest is the body of POST /orders/:id/claim.
type ClaimRequest struct {
	AgentID string `json:"agent_id"`
}

// StatusResponse reports an order's lifecycle status after a mutation.
type StatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ClaimOrder handles POST /api/v1/orders/:id/claim.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order ID")
	}

	var req ClaimRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "invalid agent ID: "+req.AgentID)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, agentID)
	if err != nil {
		return badRequest(ctx, "invalid claim data: "+err.Error())
	}

	status, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{OrderID: orderID.String(), Status: status.String()})
}

// TransitionRequest is the body of POST /orders/:id/transitions.
type TransitionRequest struct {
	Event   string `json:"event"`
	Role    string `json:"role"`
	ActorID string `json:"actor_id"`
}

// ApplyTransition handles POST /api/v1/orders/:id/transitions.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order ID")
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	event, err := order.EventFromString(req.Event)
	if err != nil {
		return badRequest(ctx, "invalid event: "+req.Event)
	}

	role, err := agent.RoleFromString(req.Role)
	if err != nil {
		return badRequest(ctx, "invalid role: "+req.Role)
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "invalid actor ID: "+req.ActorID)
	}

	cmd, err := commands.NewApplyTransitionCommand(orderID, event, role, actorID)
	if err != nil {
		return badRequest(ctx, "invalid transition data: "+err.Error())
	}

	status, err := s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{OrderID: orderID.String(), Status: status.String()})
}

// PayoutResponse is the wire representation of a commission record.
type PayoutResponse struct {
	OrderID             string `json:"order_id"`
	PlatformProfit      string `json:"platform_profit"`
	DeliveryAgentAmount string `json:"delivery_agent_amount"`
	SiteManagerAmount   string `json:"site_manager_amount"`
	ReferralAmount      string `json:"referral_amount"`
	PlatformAmount      string `json:"platform_amount"`
}

// FinalizeCommission handles POST /api/v1/orders/:id/commission.
func (s *Server) FinalizeCommission(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order ID")
	}

	cmd, err := commands.NewFinalizeCommissionCommand(orderID)
	if err != nil {
		return badRequest(ctx, "invalid finalization data: "+err.Error())
	}

	record, err := s.finalizeCommissionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PayoutResponse{
		OrderID:             record.OrderID().String(),
		PlatformProfit:      record.PlatformProfit().String(),
		DeliveryAgentAmount: record.DeliveryAgentAmount().String(),
		SiteManagerAmount:   record.SiteManagerAmount().String(),
		ReferralAmount:      record.ReferralAmount().String(),
		PlatformAmount:      record.PlatformAmount().String(),
	})
}

// ReleaseAgent handles POST /api/v1/orders/:id/release.
func (s *Server) ReleaseAgent(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order ID")
	}

	cmd, err := commands.NewReleaseAgentCommand(orderID)
	if err != nil {
		return badRequest(ctx, "invalid release data: "+err.Error())
	}

	status, err := s.releaseAgentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{OrderID: orderID.String(), Status: status.String()})
}

// ClaimableOrderResponse is one entry of GET /orders/claimable.
type ClaimableOrderResponse struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Territory    string `json:"territory"`
	Status       string `json:"status"`
	SellingPrice string `json:"selling_price"`
}

// GetClaimableOrders handles GET /api/v1/orders/claimable?role=...&territory=...
func (s *Server) GetClaimableOrders(ctx echo.Context) error {
	role, err := agent.RoleFromString(ctx.QueryParam("role"))
	if err != nil {
		return badRequest(ctx, "invalid role: "+ctx.QueryParam("role"))
	}

	query, err := queries.NewGetClaimableOrdersQuery(role, ctx.QueryParam("territory"))
	if err != nil {
		return badRequest(ctx, "invalid query: "+err.Error())
	}

	orders, err := s.getClaimableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "failed to retrieve claimable orders")
	}

	response := make([]ClaimableOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = ClaimableOrderResponse{
			ID:           o.ID.String(),
			Category:     o.Category.String(),
			Territory:    o.Territory,
			Status:       o.Status.String(),
			SellingPrice: o.SellingPrice.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// OrderResponse is the body of GET /orders/:id.
type OrderResponse struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	Territory     string  `json:"territory"`
	Status        string  `json:"status"`
	PurchasePrice string  `json:"purchase_price"`
	Markup        string  `json:"markup"`
	SellingPrice  string  `json:"selling_price"`
	DeliveryAgent *string `json:"delivery_agent_id,omitempty"`
	SiteManager   *string `json:"site_manager_id,omitempty"`
	Referral      *string `json:"referral_id,omitempty"`

	Payout *PayoutResponse `json:"payout,omitempty"`
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order ID")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "invalid query: "+err.Error())
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	response := OrderResponse{
		ID:            snapshot.ID.String(),
		Category:      snapshot.Category.String(),
		Territory:     snapshot.Territory,
		Status:        snapshot.Status.String(),
		PurchasePrice: snapshot.PurchasePrice.String(),
		Markup:        snapshot.Markup.String(),
		SellingPrice:  snapshot.SellingPrice.String(),
		DeliveryAgent: optionalIDString(snapshot.DeliveryAgentID),
		SiteManager:   optionalIDString(snapshot.SiteManagerID),
		Referral:      optionalIDString(snapshot.ReferralID),
	}

	if snapshot.Payout != nil {
		response.Payout = &PayoutResponse{
			OrderID:             snapshot.ID.String(),
			PlatformProfit:      snapshot.Payout.PlatformProfit.String(),
			DeliveryAgentAmount: snapshot.Payout.DeliveryAgentAmount.String(),
			SiteManagerAmount:   snapshot.Payout.SiteManagerAmount.String(),
			ReferralAmount:      snapshot.Payout.ReferralAmount.String(),
			PlatformAmount:      snapshot.Payout.PlatformAmount.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func optionalIDString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{Code: http.StatusInternalServerError, Message: message})
}

// mapDomainError translates use-case rejections into HTTP status codes.
// Contention outcomes (lost claims, stale transitions) map to 409 so clients
// know to re-read and retry; policy rejections map to 422.
func mapDomainError(ctx echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, order.ErrNotClaimable),
		errors.Is(err, errs.ErrConcurrentModification):
		code = http.StatusConflict
	case errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrRoleNotAllowed),
		errors.Is(err, order.ErrClaimViaCoordinator),
		errors.Is(err, agent.ErrRoleIsNotRegistrable),
		errors.Is(err, commands.ErrAgentIsInactive),
		errors.Is(err, commands.ErrTerritoryMismatch),
		errors.Is(err, commands.ErrActorIsNotBoundToOrder),
		errors.Is(err, commands.ErrOrderIsNotFinalizable),
		errors.Is(err, services.ErrInvalidCommissionInput):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}
