// Package core provides money parsing and handling utilities.
//
// This file contains the Money value used by every record and the parser that
// turns user input into it.
package core

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount. It is serialized as a bare JSON number so stored
// collections and backups stay readable by clients that expect numbers.
type Money struct {
	d decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewMoney builds Money from a float. Use it for literals and tests; user
// input goes through ParseMoney.
func NewMoney(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

// MoneyFromDecimal wraps a decimal value.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// ParseMoney converts a decimal string to Money with half-up rounding to two
// decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Only
// positive values are allowed; zero, negative or malformed input returns
// ErrInvalidAmount.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("12,34")  -> 12.34
//	ParseMoney("12.345") -> 12.35
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return Money{}, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Mul scales the amount by factor.
func (m Money) Mul(factor decimal.Decimal) Money { return Money{d: m.d.Mul(factor)} }

// Div divides the amount by n. Division by zero returns zero.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return Money{}
	}
	return Money{d: m.d.Div(decimal.NewFromInt(n))}
}

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) Cmp(o Money) int                 { return m.d.Cmp(o.d) }
func (m Money) GreaterThan(o Money) bool        { return m.d.GreaterThan(o.d) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }
func (m Money) LessThan(o Money) bool           { return m.d.LessThan(o.d) }
func (m Money) Equal(o Money) bool              { return m.d.Equal(o.d) }

// Abs returns the absolute amount.
func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

// Round rounds to the nearest whole unit, half away from zero.
func (m Money) Round() int64 { return m.d.Round(0).IntPart() }

// Rounded rounds to cents.
func (m Money) Rounded() Money { return Money{d: m.d.Round(2)} }

// Float64 returns the amount as a float for display and percentages.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String formats the amount with two decimals.
func (m Money) String() string { return m.d.StringFixed(2) }

// Validate requires a strictly positive amount.
func (m Money) Validate() error {
	if !m.d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// MaxMoney returns the larger of a and b.
func MaxMoney(a, b Money) Money {
	if b.GreaterThan(a) {
		return b
	}
	return a
}

// SumMoney adds up the given amounts.
func SumMoney(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole*100. ok is false when whole is zero, so callers
// never see NaN or Inf.
func Percent(part, whole Money) (pct float64, ok bool) {
	if whole.IsZero() {
		return 0, false
	}
	f, _ := part.d.Mul(hundred).Div(whole.d).Float64()
	return f, true
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		m.d = decimal.Zero
		return nil
	}
	return m.d.UnmarshalJSON(data)
}
