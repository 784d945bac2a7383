package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount with at most two decimal places.
// The zero value represents "not yet computed" for derived prices.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates and wraps a decimal amount.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, validationErrorf("invalid amount: %s", amount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return Money{}, validationErrorf("invalid amount: %s has more than two decimal places", amount)
	}
	return Money{amount: amount}, nil
}

// MoneyFromFloat converts a float price as received on the wire.
func MoneyFromFloat(value float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(value))
}

// Zero reports whether the amount is exactly zero.
func (m Money) Zero() bool {
	return m.amount.IsZero()
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Equal compares by value.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Amount returns the underlying decimal.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount rounded half-even to two places.
func (m Money) Float64() float64 {
	f, _ := m.amount.RoundBank(2).Float64()
	return f
}

func (m Money) String() string {
	return m.amount.RoundBank(2).StringFixed(2)
}

func validationErrorf(format string, args ...any) error {
	return NewValidationError(format, args...)
}

// NewValidationError builds a ValidationError; use it for business-rule
// violations raised outside the entities themselves.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ValidationError marks a failed domain invariant or malformed value object.
// Boundaries translate it to a client error.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
