// Package analysis computes monthly aggregates over a snapshot of stored
// records: totals, category breakdowns, forecasts and comparisons. All
// figures are derived on demand and never persisted.
package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

// Snapshot is the record set the aggregations run over.
type Snapshot struct {
	Expenses  []core.Expense
	Income    []core.Income
	Debts     []core.Debt
	Budgets   []core.Budget
	Goals     []core.SavingsGoal
	Recurring []core.RecurringExpense
	Bills     []core.BillReminder
}

// Service loads snapshots from the store and answers for the current month
// by default.
type Service struct {
	store  *storage.Store
	now    func() time.Time
	logger *log.Logger
}

func NewService(store *storage.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  store,
		now:    now,
		logger: log.ForComponent(log.ComponentAnalysis),
	}
}

// Load reads every collection the aggregations need, concurrently.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	load := func(fn func(context.Context)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx)
			return nil
		})
	}

	load(func(ctx context.Context) { snap.Expenses = s.store.Expenses.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Income = s.store.Income.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Debts = s.store.Debts.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Budgets = s.store.Budgets.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Goals = s.store.SavingsGoals.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Recurring = s.store.RecurringExpenses.GetAll(ctx) })
	load(func(ctx context.Context) { snap.Bills = s.store.BillReminders.GetAll(ctx) })

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Month resolves an optional YYYY-MM query value; empty means the current
// month.
func (s *Service) Month(month string) (string, error) {
	if month == "" {
		return core.CurrentMonth(s.now()), nil
	}
	if err := core.ValidateMonth(month); err != nil {
		return "", err
	}
	return month, nil
}

func (s *Service) Forecast(ctx context.Context, month string) (Forecast, error) {
	month, err := s.Month(month)
	if err != nil {
		return Forecast{}, err
	}
	snap, err := s.Load(ctx)
	if err != nil {
		return Forecast{}, err
	}
	f := snap.MonthlyForecast(month)
	s.logger.DebugContext(ctx, "Forecast computed", log.FieldMonth, month, "estimated_remaining", f.EstimatedRemaining.String())
	return f, nil
}

func (s *Service) Categories(ctx context.Context, month string) ([]CategoryDelta, error) {
	month, err := s.Month(month)
	if err != nil {
		return nil, err
	}
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.CategoryAnalysis(month), nil
}

func (s *Service) Comparison(ctx context.Context, month string) (Comparison, error) {
	month, err := s.Month(month)
	if err != nil {
		return Comparison{}, err
	}
	snap, err := s.Load(ctx)
	if err != nil {
		return Comparison{}, err
	}
	return snap.MonthlyComparison(month), nil
}

func (s *Service) Summary(ctx context.Context, month string) (Summary, error) {
	month, err := s.Month(month)
	if err != nil {
		return Summary{}, err
	}
	snap, err := s.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	return snap.MonthlySummary(month), nil
}
