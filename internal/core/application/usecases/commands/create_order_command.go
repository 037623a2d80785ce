package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrTerritoryIsRequired    = errors.New("territory is required")
	ErrPurchasePriceIsInvalid = errors.New("purchase price must be greater than 0")
	ErrMarkupIsInvalid        = errors.New("markup must not be negative")
)

// CreateOrderCommand represents a checkout request to register a new order.
// The selling price is not part of the command: it is computed once by the
// order aggregate from purchase price and markup, and frozen.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	category      order.Category
	territory     string
	purchasePrice kernel.Money
	markup        decimal.Decimal
	referralID    *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// The referral ID is optional and immutable once set.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	category order.Category,
	territory string,
	purchasePrice kernel.Money,
	markup decimal.Decimal,
	referralID *kernel.UUID,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCategory(category),
		command.setTerritory(territory),
		command.setPurchasePrice(purchasePrice),
		command.setMarkup(markup),
		command.setReferralID(referralID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Category returns the order category.
func (c CreateOrderCommand) Category() order.Category {
	return c.category
}

// Territory returns the territory code the order belongs to.
func (c CreateOrderCommand) Territory() string {
	return c.territory
}

// PurchasePrice returns the price paid to the seller.
func (c CreateOrderCommand) PurchasePrice() kernel.Money {
	return c.purchasePrice
}

// Markup returns the margin factor applied at creation.
func (c CreateOrderCommand) Markup() decimal.Decimal {
	return c.markup
}

// ReferralID returns the optional referring participant's ID.
func (c CreateOrderCommand) ReferralID() *kernel.UUID {
	return c.referralID
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCategory(category order.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	c.category = category
	return nil
}

func (c *CreateOrderCommand) setTerritory(territory string) error {
	if territory == "" {
		return ErrTerritoryIsRequired
	}

	c.territory = territory
	return nil
}

func (c *CreateOrderCommand) setPurchasePrice(purchasePrice kernel.Money) error {
	if err := purchasePrice.Validate(); err != nil {
		return err
	}
	if !purchasePrice.IsPositive() {
		return ErrPurchasePriceIsInvalid
	}

	c.purchasePrice = purchasePrice
	return nil
}

func (c *CreateOrderCommand) setMarkup(markup decimal.Decimal) error {
	if markup.IsNegative() {
		return ErrMarkupIsInvalid
	}

	c.markup = markup
	return nil
}

func (c *CreateOrderCommand) setReferralID(referralID *kernel.UUID) error {
	if referralID == nil {
		return nil
	}
	if err := referralID.Validate(); err != nil {
		return err
	}

	c.referralID = referralID
	return nil
}
