package services

import (
	"context"
	"fmt"

	"masrofi/internal/analysis"
	"masrofi/internal/core"
)

type BudgetService struct {
	*deps
}

// List returns the budgets of month (all budgets when month is empty) with
// spent filled from the month's expenses.
func (s *BudgetService) List(ctx context.Context, month string) ([]core.Budget, error) {
	if month != "" {
		if err := core.ValidateMonth(month); err != nil {
			return nil, err
		}
	}
	snap := analysis.Snapshot{Expenses: s.store.Expenses.GetAll(ctx)}
	out := s.store.Budgets.Filter(ctx, func(b core.Budget) bool { return month == "" || b.Month == month })
	for i := range out {
		out[i].Spent = snap.CategoryTotal(out[i].Month, out[i].Category)
	}
	return out, nil
}

// Create rejects a second budget for the same category and month.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Month == "" {
		b.Month = core.CurrentMonth(s.now())
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.ID = s.newID()
	snap := analysis.Snapshot{Expenses: s.store.Expenses.GetAll(ctx)}
	b.Spent = snap.CategoryTotal(b.Month, b.Category)

	err := s.store.Budgets.Mutate(ctx, func(items []core.Budget) ([]core.Budget, error) {
		for _, existing := range items {
			if existing.Category == b.Category && existing.Month == b.Month {
				return nil, ErrDuplicateBudget
			}
		}
		return append([]core.Budget{b}, items...), nil
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id string) error {
	if err := s.store.Budgets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete budget %s: %w", id, err)
	}
	return nil
}
