package analysis

import (
	"github.com/shopspring/decimal"

	"masrofi/internal/core"
)

// ForecastStatus classifies the estimated remaining balance.
type ForecastStatus string

const (
	// StatusOverspend means expected spending exceeds income.
	StatusOverspend ForecastStatus = "overspend"
	// StatusTight means less than 10% of income is expected to remain.
	StatusTight ForecastStatus = "tight"
	StatusGood  ForecastStatus = "good"
	// StatusNoIncome means nothing was earned in the month yet.
	StatusNoIncome ForecastStatus = "no_income"
)

var (
	savingsReserve = decimal.New(1, -1) // 10%
	half           = decimal.New(5, -1)
)

// Forecast is a heuristic estimate of the month's balance. It is not a
// ledger reconciliation and may diverge from actual spend.
type Forecast struct {
	Month                    string         `json:"month"`
	TotalIncome              core.Money     `json:"totalIncome"`
	RecurringExpenses        core.Money     `json:"recurringExpenses"`
	DueDebts                 core.Money     `json:"dueDebts"`
	UpcomingBills            core.Money     `json:"upcomingBills"`
	LastMonthAverage         core.Money     `json:"lastMonthAverage"`
	ExpectedExpenses         core.Money     `json:"expectedExpenses"`
	SavingsGoalContributions core.Money     `json:"savingsGoalContributions"`
	EstimatedRemaining       core.Money     `json:"estimatedRemaining"`
	Status                   ForecastStatus `json:"status"`
	// SuggestedSavings is half the remaining balance when the outlook is good.
	SuggestedSavings core.Money `json:"suggestedSavings"`
}

// RecurringMonthly sums active recurring expenses amortized to one month.
// Unknown frequencies contribute nothing.
func (s Snapshot) RecurringMonthly() core.Money {
	var total core.Money
	for _, r := range s.Recurring {
		if !r.IsActive {
			continue
		}
		a, err := AmortizerFor(r.Frequency)
		if err != nil {
			continue
		}
		total = total.Add(a.Monthly(r.Amount))
	}
	return total
}

// DueDebts sums active debts we owe that fall due in month.
func (s Snapshot) DueDebts(month string) core.Money {
	var total core.Money
	for _, d := range s.Debts {
		if d.Type == core.OwedByUs && d.IsActive() && core.InMonth(d.DueDate, month) {
			total = total.Add(d.TotalAmount)
		}
	}
	return total
}

// UpcomingBills sums unpaid bills due in month.
func (s Snapshot) UpcomingBills(month string) core.Money {
	var total core.Money
	for _, b := range s.Bills {
		if !b.IsPaid && core.InMonth(b.DueDate, month) {
			total = total.Add(b.Amount)
		}
	}
	return total
}

// MonthlyForecast estimates month's balance. Expected spending is the larger
// of last month's total and the known commitments; 10% of income is always
// reserved for savings.
func (s Snapshot) MonthlyForecast(month string) Forecast {
	income := s.IncomeTotal(month)
	recurring := s.RecurringMonthly()
	debts := s.DueDebts(month)
	bills := s.UpcomingBills(month)
	last := s.ExpenseTotal(core.PreviousMonth(month))

	expected := core.MaxMoney(last, core.SumMoney(recurring, debts, bills))
	reserve := income.Mul(savingsReserve)
	remaining := income.Sub(expected).Sub(reserve)

	f := Forecast{
		Month:                    month,
		TotalIncome:              income.Rounded(),
		RecurringExpenses:        recurring.Rounded(),
		DueDebts:                 debts.Rounded(),
		UpcomingBills:            bills.Rounded(),
		LastMonthAverage:         last.Rounded(),
		ExpectedExpenses:         expected.Rounded(),
		SavingsGoalContributions: reserve.Rounded(),
		EstimatedRemaining:       remaining.Rounded(),
	}

	switch {
	case !income.IsPositive():
		f.Status = StatusNoIncome
	case remaining.IsNegative():
		f.Status = StatusOverspend
	case remaining.LessThan(income.Mul(savingsReserve)):
		f.Status = StatusTight
	default:
		f.Status = StatusGood
		f.SuggestedSavings = remaining.Mul(half).Rounded()
	}
	return f
}
