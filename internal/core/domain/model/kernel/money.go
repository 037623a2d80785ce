package kernel

import (
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// minorUnitPlaces is the number of decimal places of the smallest currency unit.
// All Money values live on this grid; arithmetic results are rounded onto it.
const minorUnitPlaces = 2

// ErrMoneyIsNotConstructed indicates that a Money value was not created through
// one of the constructor functions.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney, MoneyFromString, or ZeroMoney")

// Money is an exact-decimal monetary value object. It wraps shopspring/decimal
// so commission arithmetic never touches binary floating point, which is what
// guarantees payout sums can be conserved to the smallest currency unit.
//
// Money is immutable: arithmetic methods return new values. The zero value is
// invalid; use ZeroMoney for an explicit zero amount.
type Money struct {
	amount decimal.Decimal

	guard guard.ConstructorGuard
}

// NewMoney creates a Money value from a decimal amount.
// The amount is rounded half-up onto the minor-unit grid.
func NewMoney(amount decimal.Decimal) Money {
	return Money{
		amount: amount.Round(minorUnitPlaces),
		guard:  guard.NewConstructorGuard(),
	}
}

// MoneyFromString parses a Money value from its decimal string representation,
// e.g. "1210.00". Returns an error for non-numeric input.
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money amount", err)
	}
	return NewMoney(amount), nil
}

// ZeroMoney creates a valid Money value of zero amount.
func ZeroMoney() Money {
	return NewMoney(decimal.Zero)
}

// Amount returns the underlying decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

// Sub returns the difference of two Money values.
func (m Money) Sub(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// Percent returns the given percentage of the amount, rounded onto the
// minor-unit grid. Percent(decimal 40) of 210.00 is 84.00.
func (m Money) Percent(percent decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// MulFactor returns the amount multiplied by a decimal factor, rounded onto the
// minor-unit grid. Used for markup arithmetic: purchase × (1 + markup).
func (m Money) MulFactor(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor))
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares two Money values by amount.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with exactly two decimal places, e.g. "210.00".
// Implements fmt.Stringer.
func (m Money) String() string {
	return m.amount.StringFixed(minorUnitPlaces)
}

// Validate checks that the Money value was properly constructed.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
