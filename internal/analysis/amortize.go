package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"masrofi/internal/core"
)

// Amortizer converts a recurring amount into its monthly equivalent.
// Each frequency has its own strategy.
type Amortizer interface {
	Monthly(amount core.Money) core.Money
}

// DailyAmortizer counts a month as 30 days.
type DailyAmortizer struct{}

func (DailyAmortizer) Monthly(amount core.Money) core.Money {
	return amount.Mul(decimal.NewFromInt(30))
}

// WeeklyAmortizer counts a month as 4 weeks.
type WeeklyAmortizer struct{}

func (WeeklyAmortizer) Monthly(amount core.Money) core.Money {
	return amount.Mul(decimal.NewFromInt(4))
}

// MonthlyAmortizer is the identity.
type MonthlyAmortizer struct{}

func (MonthlyAmortizer) Monthly(amount core.Money) core.Money { return amount }

// YearlyAmortizer spreads the amount over 12 months.
type YearlyAmortizer struct{}

func (YearlyAmortizer) Monthly(amount core.Money) core.Money { return amount.Div(12) }

var amortizers = map[core.Frequency]Amortizer{
	core.Daily:   DailyAmortizer{},
	core.Weekly:  WeeklyAmortizer{},
	core.Monthly: MonthlyAmortizer{},
	core.Yearly:  YearlyAmortizer{},
}

// AmortizerFor returns the strategy for a recurring-expense frequency.
func AmortizerFor(freq core.Frequency) (Amortizer, error) {
	a, ok := amortizers[freq]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", freq)
	}
	return a, nil
}
