package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
	"masrofi/internal/log"
)

// ExpenseService manages expenses.
type ExpenseService struct {
	*deps
}

// List returns expenses newest first, limited to month when it is set.
func (s *ExpenseService) List(ctx context.Context, month string) ([]core.Expense, error) {
	if month == "" {
		return s.store.Expenses.GetAll(ctx), nil
	}
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.store.Expenses.Filter(ctx, func(e core.Expense) bool { return core.InMonth(e.Date, month) }), nil
}

// Create saves an expense and reports the activity. A missing date means now.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	e, err := s.add(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.emit(ctx, EventExpenseAdded)
	return e, nil
}

func (s *ExpenseService) add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Date == "" {
		e.Date = s.timestamp()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = s.newID()

	if err := s.store.Expenses.Add(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense created", log.NewFields().
		WithOperation(log.OpCreate).
		WithRecord("expense", e.ID).ToSlice()...)
	return e, nil
}

// Update replaces the editable fields of an expense.
func (s *ExpenseService) Update(ctx context.Context, id string, in core.Expense) (core.Expense, error) {
	in.ID = id
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated, err := s.store.Expenses.Update(ctx, id, func(e *core.Expense) error {
		*e = in
		return nil
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldRecordID, id)
	return nil
}
