package analysis

import (
	"context"
	"testing"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/storage"
)

func m(v float64) core.Money { return core.NewMoney(v) }

func exp(amount float64, category, date string) core.Expense {
	return core.Expense{ID: date + category, Title: "x", Amount: m(amount), Category: category, Date: date}
}

func TestForecastScenario(t *testing.T) {
	snap := Snapshot{
		Income: []core.Income{{ID: "i1", Title: "Salary", Amount: m(3000), Date: "2024-06-01T09:00:00.000Z"}},
		Expenses: []core.Expense{
			exp(500, "food", "2024-06-03T10:00:00.000Z"),
			exp(300, "transport", "2024-06-04T10:00:00.000Z"),
		},
	}

	f := snap.MonthlyForecast("2024-06")
	if f.TotalIncome.String() != "3000.00" {
		t.Fatalf("income = %s", f.TotalIncome)
	}
	if !f.LastMonthAverage.IsZero() || !f.ExpectedExpenses.IsZero() {
		t.Fatalf("expected no last month spend, got last=%s expected=%s", f.LastMonthAverage, f.ExpectedExpenses)
	}
	if f.SavingsGoalContributions.String() != "300.00" {
		t.Fatalf("reserve = %s", f.SavingsGoalContributions)
	}
	if f.EstimatedRemaining.String() != "2700.00" {
		t.Fatalf("remaining = %s, want 2700.00", f.EstimatedRemaining)
	}
	if f.Status != StatusGood || f.SuggestedSavings.String() != "1350.00" {
		t.Fatalf("status = %s suggested = %s", f.Status, f.SuggestedSavings)
	}
}

func TestForecastCommitmentsVersusLastMonth(t *testing.T) {
	snap := Snapshot{
		Income: []core.Income{{Amount: m(2000), Date: "2024-06-01"}},
		Expenses: []core.Expense{
			exp(400, "food", "2024-05-20T10:00:00.000Z"),
		},
		Recurring: []core.RecurringExpense{
			{Amount: m(10), Frequency: core.Daily, IsActive: true},   // 300
			{Amount: m(25), Frequency: core.Weekly, IsActive: true},  // 100
			{Amount: m(120), Frequency: core.Yearly, IsActive: true}, // 10
			{Amount: m(50), Frequency: core.Monthly, IsActive: true}, // 50
			{Amount: m(999), Frequency: core.Monthly, IsActive: false},
			{Amount: m(999), Frequency: "fortnightly", IsActive: true},
		},
		Debts: []core.Debt{
			{TotalAmount: m(200), Type: core.OwedByUs, Status: core.DebtActive, DueDate: "2024-06-20"},
			{TotalAmount: m(900), Type: core.OwedToUs, Status: core.DebtActive, DueDate: "2024-06-20"},
			{TotalAmount: m(900), Type: core.OwedByUs, Status: core.DebtPaid, DueDate: "2024-06-20"},
			{TotalAmount: m(900), Type: core.OwedByUs, Status: core.DebtActive, DueDate: "2024-07-01"},
		},
		Bills: []core.BillReminder{
			{Amount: m(75), DueDate: "2024-06-10"},
			{Amount: m(500), DueDate: "2024-06-11", IsPaid: true},
		},
	}

	f := snap.MonthlyForecast("2024-06")
	checks := map[string]core.Money{
		"recurring": f.RecurringExpenses,
		"debts":     f.DueDebts,
		"bills":     f.UpcomingBills,
		"last":      f.LastMonthAverage,
		"expected":  f.ExpectedExpenses,
		"remaining": f.EstimatedRemaining,
	}
	want := map[string]string{
		"recurring": "460.00",
		"debts":     "200.00",
		"bills":     "75.00",
		"last":      "400.00",
		"expected":  "735.00",
		"remaining": "1065.00",
	}
	for k, v := range checks {
		if v.String() != want[k] {
			t.Errorf("%s = %s, want %s", k, v, want[k])
		}
	}
}

func TestForecastStatuses(t *testing.T) {
	cases := []struct {
		name   string
		income float64
		spent  float64
		want   ForecastStatus
	}{
		{"no income", 0, 100, StatusNoIncome},
		{"overspend", 1000, 1200, StatusOverspend},
		{"tight", 1000, 850, StatusTight},
		{"good", 1000, 100, StatusGood},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Snapshot{Expenses: []core.Expense{exp(tc.spent, "food", "2024-05-10")}}
			if tc.income > 0 {
				snap.Income = []core.Income{{Amount: m(tc.income), Date: "2024-06-01"}}
			}
			if got := snap.MonthlyForecast("2024-06").Status; got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPreviousMonthTotalMatchesForecast(t *testing.T) {
	snap := Snapshot{Expenses: []core.Expense{
		exp(10, "food", "2023-12-31T23:00:00.000Z"),
		exp(15.5, "home", "2023-12-01T00:00:00.000Z"),
		exp(99, "food", "2024-01-02T00:00:00.000Z"),
		exp(1, "food", "2022-12-15T00:00:00.000Z"),
	}}

	prevTotal := snap.ExpenseTotal("2023-12")
	f := snap.MonthlyForecast("2024-01")
	if !prevTotal.Equal(f.LastMonthAverage) {
		t.Fatalf("previous month total %s != lastMonthAverage %s", prevTotal, f.LastMonthAverage)
	}
	if prevTotal.String() != "25.50" {
		t.Fatalf("prev total = %s", prevTotal)
	}
}

func TestCategoryAnalysis(t *testing.T) {
	snap := Snapshot{Expenses: []core.Expense{
		exp(150, "food", "2024-06-02"),
		exp(100, "food", "2024-05-02"),
		exp(40, "transport", "2024-06-02"),
		exp(80, "health", "2024-05-09"),
		exp(5, "bills", "2024-04-01"), // outside both months
	}}

	got := snap.CategoryAnalysis("2024-06")
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %+v", got)
	}
	// Catalog order: food, transport, health.
	if got[0].Category != "food" || got[0].ChangePercent != 50 || got[0].IsNew {
		t.Fatalf("food = %+v", got[0])
	}
	if got[1].Category != "transport" || got[1].ChangePercent != 100 || !got[1].IsNew {
		t.Fatalf("transport = %+v", got[1])
	}
	if got[2].Category != "health" || got[2].ChangePercent != -100 || got[2].Change.String() != "-80.00" {
		t.Fatalf("health = %+v", got[2])
	}
}

func TestMonthlyComparison(t *testing.T) {
	snap := Snapshot{Expenses: []core.Expense{
		exp(110, "food", "2024-06-02"),
		exp(100, "food", "2024-05-02"),
		exp(30, "home", "2024-06-02"),
		exp(10, "home", "2024-05-02"),
		exp(20, "health", "2024-05-02"),
	}}

	c := snap.MonthlyComparison("2024-06")
	if c.ThisMonth.Total.String() != "140.00" || c.LastMonth.Total.String() != "130.00" {
		t.Fatalf("totals = %s / %s", c.ThisMonth.Total, c.LastMonth.Total)
	}
	if c.ChangePercent != 8 {
		t.Fatalf("changePercent = %v, want 8", c.ChangePercent)
	}

	order := []string{"home", "health", "food"} // 200, -100, 10
	if len(c.CategoryChanges) != len(order) {
		t.Fatalf("changes = %+v", c.CategoryChanges)
	}
	for i, id := range order {
		if c.CategoryChanges[i].Category != id {
			t.Fatalf("position %d = %s, want %s (%+v)", i, c.CategoryChanges[i].Category, id, c.CategoryChanges)
		}
	}
}

func TestMonthlyComparisonZeroLastMonth(t *testing.T) {
	snap := Snapshot{Expenses: []core.Expense{exp(50, "food", "2024-01-05")}}
	c := snap.MonthlyComparison("2024-01")
	if c.LastMonth.Month != "2023-12" {
		t.Fatalf("last month = %s", c.LastMonth.Month)
	}
	if c.ChangePercent != 0 {
		t.Fatalf("changePercent = %v, want 0", c.ChangePercent)
	}
}

func TestMonthlySummary(t *testing.T) {
	snap := Snapshot{
		Income:   []core.Income{{Amount: m(1000), Date: "2024-06-01"}},
		Expenses: []core.Expense{exp(250, "food", "2024-06-03")},
	}
	s := snap.MonthlySummary("2024-06")
	if !s.HasIncome || s.SavingsRate != 75 || s.Balance.String() != "750.00" {
		t.Fatalf("summary = %+v", s)
	}

	empty := Snapshot{}.MonthlySummary("2024-06")
	if empty.HasIncome || empty.SavingsRate != 0 {
		t.Fatalf("zero income must not produce a rate: %+v", empty)
	}
}

func TestServiceUsesStoreAndClock(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemoryBackend())
	_ = store.Income.Add(ctx, core.Income{ID: "i", Title: "Salary", Amount: m(3000), Date: "2024-06-01"})
	_ = store.Expenses.Add(ctx, exp(500, "food", "2024-06-03"))

	now := func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	svc := NewService(store, now)

	f, err := svc.Forecast(ctx, "")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if f.Month != "2024-06" || f.EstimatedRemaining.String() != "2700.00" {
		t.Fatalf("forecast = %+v", f)
	}

	if _, err := svc.Summary(ctx, "2024-13"); err != core.ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestAmortizerFor(t *testing.T) {
	if _, err := AmortizerFor(core.Biweekly); err == nil {
		t.Fatal("biweekly is not a recurring-expense frequency")
	}
	a, err := AmortizerFor(core.Yearly)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Monthly(m(1200)).String(); got != "100.00" {
		t.Fatalf("yearly 1200 = %s per month", got)
	}
}
