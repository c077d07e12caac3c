package ai

import (
	"fmt"
	"math"
	"sort"

	"masrofi/internal/core"
)

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// LocalAnalysis summarizes the payload without the remote service: balance,
// savings rate and debt ratio against income, and spending per category.
func LocalAnalysis(data FinancialData) Analysis {
	var expenses, income, debts, savings core.Money
	patterns := map[string]core.Money{}
	for _, e := range data.Expenses {
		expenses = expenses.Add(e.Amount)
		patterns[e.Category] = patterns[e.Category].Add(e.Amount)
	}
	for _, i := range data.Incomes {
		income = income.Add(i.Amount)
	}
	for _, d := range data.Debts {
		if d.IsActive() && d.Type == core.OwedByUs {
			debts = debts.Add(d.TotalAmount)
		}
	}
	for _, g := range data.SavingsGoals {
		savings = savings.Add(g.CurrentAmount)
	}

	balance := income.Sub(expenses)
	savingsRate, _ := core.Percent(savings, income)
	debtRatio, _ := core.Percent(debts, income)
	savingsRate, debtRatio = round1(savingsRate), round1(debtRatio)

	out := Analysis{
		Analysis: fmt.Sprintf("You recorded %d expenses totalling %s against income of %s, leaving a balance of %s %s.",
			len(data.Expenses), expenses, income, balance, data.Currency),
		SpendingPatterns: make(map[string]any, len(patterns)),
		Forecast: &Forecast{
			MonthlyBalance: balance,
			SavingsRate:    &savingsRate,
			DebtRatio:      &debtRatio,
		},
		Local: true,
	}
	for cat, total := range patterns {
		out.SpendingPatterns[cat] = total
	}

	if top, total := topCategory(patterns); top != "" {
		out.Insights = append(out.Insights, fmt.Sprintf("Your largest spending category is %s with %s", core.CategoryLabel(top), total))
	}
	switch {
	case !income.IsPositive():
		out.Insights = append(out.Insights, "No income recorded yet")
		out.Recommendations = append(out.Recommendations, "Record your income to get a meaningful analysis")
	case balance.IsNegative():
		out.Insights = append(out.Insights, "You are spending more than you earn")
		out.Alerts = append(out.Alerts, fmt.Sprintf("Expenses exceed income by %s", balance.Abs()))
		out.Recommendations = append(out.Recommendations, "Cut back on your largest category first")
	default:
		out.Insights = append(out.Insights, fmt.Sprintf("Your savings rate is %.1f%%", savingsRate))
	}
	if debtRatio > 30 {
		out.Alerts = append(out.Alerts, fmt.Sprintf("Active debts are %.1f%% of your income", debtRatio))
	}
	out.Recommendations = append(out.Recommendations, FallbackTips...)
	if out.Insights == nil {
		out.Insights = []string{}
	}
	return out
}

// topCategory returns the category with the highest total, ties broken by id.
func topCategory(totals map[string]core.Money) (string, core.Money) {
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var best string
	var bestTotal core.Money
	for _, id := range ids {
		if best == "" || totals[id].GreaterThan(bestTotal) {
			best, bestTotal = id, totals[id]
		}
	}
	return best, bestTotal
}
