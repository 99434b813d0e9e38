package kernel

import (
	"invoicing/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is an immutable value object representing a monetary amount.
// It wraps github.com/shopspring/decimal to guarantee exact arithmetic for
// order totals and tax accumulation; binary floating point is never used.
//
// The zero value of Money is a valid zero amount, so order fields that start
// at zero (accumulated tax, empty totals) need no explicit initialization.
//
// Example:
//
//	total := kernel.ZeroMoney()
//	price, _ := kernel.NewMoneyFromString("100.00")
//	total = total.Add(price)
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a Money holding the amount 0.
func ZeroMoney() Money {
	return Money{}
}

// NewMoney creates a Money from a decimal amount.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses a decimal string such as "100.00" or "-8.25".
// Returns a ValueIsInvalidError if the string is not a valid decimal number.
//
// Example:
//
//	tax, err := kernel.NewMoneyFromString("8.00")
//	if err != nil {
//	    return fmt.Errorf("invalid tax amount: %w", err)
//	}
func NewMoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money amount", err)
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromFloat creates a Money from a float64.
// Intended for interop with transport layers; prefer NewMoneyFromString
// wherever the source value is textual.
func NewMoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns the difference of m and other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// IsZero reports whether the amount is exactly 0.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below 0.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsEqual compares two monetary amounts for numeric equality.
// "8.0" and "8.00" are equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64 for transport-layer serialization.
// The conversion may lose precision and must not feed back into arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the decimal string representation, e.g. "164".
func (m Money) String() string {
	return m.amount.String()
}
