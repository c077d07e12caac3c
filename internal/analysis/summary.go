package analysis

import (
	"math"

	"masrofi/internal/core"
)

// Summary is the month's income, spending and savings rate.
type Summary struct {
	Month    string     `json:"month"`
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Balance  core.Money `json:"balance"`
	// SavingsRate is the share of income left over, in percent. It is only
	// meaningful when HasIncome is true.
	SavingsRate float64               `json:"savingsRate"`
	HasIncome   bool                  `json:"hasIncome"`
	ByCategory  map[string]core.Money `json:"byCategory"`
}

func (s Snapshot) MonthlySummary(month string) Summary {
	income := s.IncomeTotal(month)
	expenses := s.ExpenseTotal(month)
	balance := income.Sub(expenses)

	sum := Summary{
		Month:      month,
		Income:     income,
		Expenses:   expenses,
		Balance:    balance,
		ByCategory: s.ByCategory(month),
	}
	if rate, ok := core.Percent(balance, income); ok {
		sum.SavingsRate = math.Round(rate*100) / 100
		sum.HasIncome = true
	}
	return sum
}
