package analysis

import "masrofi/internal/core"

// ExpenseTotal sums expenses whose date falls in month.
func (s Snapshot) ExpenseTotal(month string) core.Money {
	var total core.Money
	for _, e := range s.Expenses {
		if core.InMonth(e.Date, month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CategoryTotal sums month's expenses in one category. CategoryAll means
// every category.
func (s Snapshot) CategoryTotal(month, category string) core.Money {
	if category == core.CategoryAll {
		return s.ExpenseTotal(month)
	}
	var total core.Money
	for _, e := range s.Expenses {
		if e.Category == category && core.InMonth(e.Date, month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// DayTotal sums expenses dated on day (YYYY-MM-DD).
func (s Snapshot) DayTotal(day string) core.Money {
	var total core.Money
	for _, e := range s.Expenses {
		if core.OnDay(e.Date, day) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// IncomeTotal sums income whose date falls in month.
func (s Snapshot) IncomeTotal(month string) core.Money {
	var total core.Money
	for _, i := range s.Income {
		if core.InMonth(i.Date, month) {
			total = total.Add(i.Amount)
		}
	}
	return total
}

// ByCategory groups month's expenses by category id.
func (s Snapshot) ByCategory(month string) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, e := range s.Expenses {
		if core.InMonth(e.Date, month) {
			out[e.Category] = out[e.Category].Add(e.Amount)
		}
	}
	return out
}

// BudgetsFor returns the budgets of month in stored order.
func (s Snapshot) BudgetsFor(month string) []core.Budget {
	var out []core.Budget
	for _, b := range s.Budgets {
		if b.Month == month {
			out = append(out, b)
		}
	}
	return out
}
