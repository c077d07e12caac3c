package core

import "testing"

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:       "e1",
		Title:    "ok",
		Amount:   NewMoney(1),
		Category: "food",
		Date:     "2025-01-01T10:00:00.000Z",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Title: "", Amount: NewMoney(1), Category: "food", Date: "2025-01-01"},
		{Title: "a", Amount: Money{}, Category: "food", Date: "2025-01-01"},
		{Title: "a", Amount: NewMoney(-1), Category: "food", Date: "2025-01-01"},
		{Title: "a", Amount: NewMoney(1), Category: "nope", Date: "2025-01-01"},
		{Title: "a", Amount: NewMoney(1), Category: "food", Date: "yesterday"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	cases := []struct {
		name string
		b    Budget
		ok   bool
	}{
		{"category", Budget{Category: "food", Amount: NewMoney(100), Month: "2024-06"}, true},
		{"all", Budget{Category: CategoryAll, Amount: NewMoney(100), Month: "2024-06"}, true},
		{"bad month", Budget{Category: "food", Amount: NewMoney(100), Month: "2024-13"}, false},
		{"bad category", Budget{Category: "cars", Amount: NewMoney(100), Month: "2024-06"}, false},
		{"zero amount", Budget{Category: "food", Month: "2024-06"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.b.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, ok %v", err, tc.ok)
			}
		})
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	r := RecurringExpense{Title: "Rent", Amount: NewMoney(900), Category: "home", Frequency: Monthly, NextDate: "2024-07-01", IsActive: true}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	r.Frequency = Biweekly
	if err := r.Validate(); err != ErrInvalidFrequency {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestSavingsGoalIsComplete(t *testing.T) {
	g := SavingsGoal{Name: "Car", TargetAmount: NewMoney(1000), CurrentAmount: NewMoney(999.99)}
	if g.IsComplete() {
		t.Fatalf("goal should not be complete")
	}
	g.CurrentAmount = NewMoney(1000)
	if !g.IsComplete() {
		t.Fatalf("goal should be complete")
	}
}

func TestPreviousMonth(t *testing.T) {
	cases := map[string]string{
		"2024-06": "2024-05",
		"2024-01": "2023-12",
		"2024-12": "2024-11",
		"2024-1":  "",
		"bogus!!": "",
	}
	for in, want := range cases {
		if got := PreviousMonth(in); got != want {
			t.Errorf("PreviousMonth(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInMonthIsPrefixMatch(t *testing.T) {
	if !InMonth("2024-06-30T23:59:59.000Z", "2024-06") {
		t.Fatalf("expected match")
	}
	if InMonth("2024-07-01T00:00:00.000Z", "2024-06") {
		t.Fatalf("unexpected match")
	}
	if InMonth("2024-06-01", "") {
		t.Fatalf("empty month must not match")
	}
}
