package achievements

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/storage"
)

func newEngine(now *time.Time) (*Engine, *storage.Store) {
	store := storage.New(storage.NewMemoryBackend())
	return NewEngine(store, WithClock(func() time.Time { return *now })), store
}

func ids(items []core.Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range items {
		out[a.ID] = true
	}
	return out
}

func addExpenses(t *testing.T, store *storage.Store, n int, date string, amount float64) {
	t.Helper()
	for i := 0; i < n; i++ {
		e := core.Expense{ID: fmt.Sprintf("e-%s-%d", date, i), Title: "x", Amount: core.NewMoney(amount), Category: "food", Date: date}
		if err := store.Expenses.Add(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCatalog(t *testing.T) {
	if len(Catalog) != 16 {
		t.Fatalf("catalog has %d entries", len(Catalog))
	}
	seen := map[string]bool{}
	for _, d := range Catalog {
		if seen[d.ID] {
			t.Errorf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
		if d.Points <= 0 || d.Target <= 0 {
			t.Errorf("%s has points %d target %v", d.ID, d.Points, d.Target)
		}
	}
}

func TestCheckUnlocksOnceAndCreditsPoints(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	e, store := newEngine(&now)
	addExpenses(t, store, 10, "2026-03-02", 10)

	unlocked, err := e.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(unlocked)
	if !got[FirstExpense] || !got[Expense10] || got[Expense50] {
		t.Fatalf("unlocked = %v", got)
	}
	if p := e.Points(ctx); p != 35 {
		t.Fatalf("points = %d, want 35", p)
	}

	again, err := e.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Fatalf("second check unlocked %v", ids(again))
	}
	if p := e.Points(ctx); p != 35 {
		t.Fatalf("points changed on repeat check: %d", p)
	}
}

func TestUnlocksAreMonotonic(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	e, store := newEngine(&now)
	addExpenses(t, store, 1, "2026-03-02", 10)
	if _, err := e.Check(ctx); err != nil {
		t.Fatal(err)
	}

	if err := store.Expenses.ReplaceAll(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Check(ctx); err != nil {
		t.Fatal(err)
	}
	for _, a := range e.List(ctx) {
		if a.ID == FirstExpense && !a.Unlocked {
			t.Fatal("first_expense was re-locked")
		}
	}
}

func TestSavingsRate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	e, store := newEngine(&now)
	if err := store.Income.Add(ctx, core.Income{ID: "i1", Title: "salary", Amount: core.NewMoney(1000), Date: "2026-03-01"}); err != nil {
		t.Fatal(err)
	}
	addExpenses(t, store, 1, "2026-03-03", 750)

	unlocked, err := e.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(unlocked)
	if !got[Saver10] || !got[Saver20] || got[Saver30] {
		t.Fatalf("unlocked = %v", got)
	}
	if !got[FirstIncome] {
		t.Error("first_income not unlocked")
	}
}

func TestSavingsRateJustBelowTarget(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	e, store := newEngine(&now)
	if err := store.Income.Add(ctx, core.Income{ID: "i1", Title: "salary", Amount: core.NewMoney(1000), Date: "2026-03-01"}); err != nil {
		t.Fatal(err)
	}
	// 9.996% saved
	addExpenses(t, store, 1, "2026-03-03", 900.04)

	unlocked, err := e.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ids(unlocked)[Saver10] {
		t.Fatal("saver_10 unlocked below a 10% savings rate")
	}
	for _, a := range e.List(ctx) {
		if a.ID == Saver10 && a.Progress != 10 {
			t.Errorf("saver_10 progress = %v, want 10 after display rounding", a.Progress)
		}
	}
}

func TestGoalsDebtsAndBudgetMaster(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("all unlocked", func(t *testing.T) {
		e, store := newEngine(&now)
		_ = store.SavingsGoals.Add(ctx, core.SavingsGoal{ID: "g1", Name: "car", TargetAmount: core.NewMoney(100), CurrentAmount: core.NewMoney(100)})
		_ = store.Debts.Add(ctx, core.Debt{ID: "d1", PersonName: "Sam", Type: core.OwedByUs, TotalAmount: core.NewMoney(5), Status: core.DebtPaid})
		_ = store.Budgets.Add(ctx, core.Budget{ID: "b1", Category: "food", Amount: core.NewMoney(100), Month: "2026-02"})
		addExpenses(t, store, 1, "2026-02-10", 100)

		unlocked, err := e.Check(ctx)
		if err != nil {
			t.Fatal(err)
		}
		got := ids(unlocked)
		for _, id := range []string{FirstGoal, GoalAchieved, DebtPaid, BudgetMaster} {
			if !got[id] {
				t.Errorf("%s not unlocked", id)
			}
		}
	})

	t.Run("budget broken or current month", func(t *testing.T) {
		e, store := newEngine(&now)
		_ = store.Budgets.Add(ctx, core.Budget{ID: "b1", Category: "food", Amount: core.NewMoney(100), Month: "2026-02"})
		_ = store.Budgets.Add(ctx, core.Budget{ID: "b2", Category: "transport", Amount: core.NewMoney(100), Month: "2026-02"})
		_ = store.Budgets.Add(ctx, core.Budget{ID: "b3", Category: "food", Amount: core.NewMoney(100), Month: "2026-03"})
		addExpenses(t, store, 1, "2026-02-10", 100.01)

		unlocked, err := e.Check(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if ids(unlocked)[BudgetMaster] {
			t.Fatal("budget_master unlocked for a broken month")
		}
	})
}

func TestNextStreak(t *testing.T) {
	day := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		in      core.Streak
		want    core.Streak
		wantNew bool
	}{
		{"first activity", core.Streak{}, core.Streak{Current: 1, Longest: 1, LastDate: "2026-03-15"}, true},
		{"same day", core.Streak{Current: 4, Longest: 6, LastDate: "2026-03-15"}, core.Streak{Current: 4, Longest: 6, LastDate: "2026-03-15"}, false},
		{"yesterday", core.Streak{Current: 4, Longest: 4, LastDate: "2026-03-14"}, core.Streak{Current: 5, Longest: 5, LastDate: "2026-03-15"}, true},
		{"gap", core.Streak{Current: 9, Longest: 9, LastDate: "2026-03-12"}, core.Streak{Current: 1, Longest: 9, LastDate: "2026-03-15"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isNew := nextStreak(tt.in, day)
			if got != tt.want || isNew != tt.wantNew {
				t.Errorf("nextStreak() = %+v, %v; want %+v, %v", got, isNew, tt.want, tt.wantNew)
			}
		})
	}
}

func TestUpdateStreakUnlocksAtTarget(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e, _ := newEngine(&now)

	var unlocked []string
	for day := 0; day < 7; day++ {
		u, err := e.UpdateStreak(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !u.IsNewDay {
			t.Fatalf("day %d not new", day)
		}
		for _, a := range u.Unlocked {
			unlocked = append(unlocked, a.ID)
		}
		now = now.Add(24 * time.Hour)
	}
	if len(unlocked) != 2 || unlocked[0] != Streak3 || unlocked[1] != Streak7 {
		t.Fatalf("unlocked = %v", unlocked)
	}
	if s := e.Streak(ctx); s.Current != 7 || s.Longest != 7 {
		t.Fatalf("streak = %+v", s)
	}
	if p := e.Points(ctx); p != 45 {
		t.Fatalf("points = %d", p)
	}

	now = now.Add(-24 * time.Hour)
	u, err := e.UpdateStreak(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u.IsNewDay || len(u.Unlocked) != 0 {
		t.Fatalf("same-day update = %+v", u)
	}
}

func TestRecordAIUse(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e, _ := newEngine(&now)

	for i := 1; i <= 5; i++ {
		unlocked, err := e.RecordAIUse(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if (i == 5) != ids(unlocked)[AIUser] {
			t.Fatalf("use %d: unlocked = %v", i, ids(unlocked))
		}
	}
	if p := e.Points(ctx); p != 25 {
		t.Fatalf("points = %d", p)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points   int
		level    int
		progress float64
		wantNext bool
	}{
		{0, 1, 0, true},
		{25, 1, 50, true},
		{50, 2, 0, true},
		{100, 2, 50, true},
		{875, 6, 50, true},
		{1000, 7, 100, false},
		{5000, 7, 100, false},
	}
	for _, tt := range tests {
		got := LevelFor(tt.points)
		if got.Level.Level != tt.level || got.Progress != tt.progress || (got.Next != nil) != tt.wantNext {
			t.Errorf("LevelFor(%d) = level %d progress %v next %v", tt.points, got.Level.Level, got.Progress, got.Next)
		}
	}
}

func TestProgressAndPoints(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e, store := newEngine(&now)

	if p := e.Progress(ctx); p.Total != 16 || p.Unlocked != 0 || p.Percentage != 0 {
		t.Fatalf("Progress() = %+v", p)
	}
	addExpenses(t, store, 1, "2026-03-01", 5)
	if _, err := e.Check(ctx); err != nil {
		t.Fatal(err)
	}
	if p := e.Progress(ctx); p.Unlocked != 1 || p.Percentage != 6 {
		t.Fatalf("Progress() = %+v", p)
	}

	if _, err := e.AddPoints(ctx, -1); !errors.Is(err, ErrNegativePoints) {
		t.Fatalf("AddPoints(-1) = %v", err)
	}
	total, err := e.AddPoints(ctx, 5)
	if err != nil || total != 15 {
		t.Fatalf("AddPoints(5) = %d, %v", total, err)
	}
}
