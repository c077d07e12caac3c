package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
)

type IncomeService struct {
	*deps
}

func (s *IncomeService) List(ctx context.Context, month string) ([]core.Income, error) {
	if month == "" {
		return s.store.Income.GetAll(ctx), nil
	}
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.store.Income.Filter(ctx, func(i core.Income) bool { return core.InMonth(i.Date, month) }), nil
}

func (s *IncomeService) Create(ctx context.Context, i core.Income) (core.Income, error) {
	if i.Date == "" {
		i.Date = s.timestamp()
	}
	if err := i.Validate(); err != nil {
		return core.Income{}, err
	}
	if !i.IsRecurring {
		i.Frequency = ""
	}
	i.ID = s.newID()
	if err := s.store.Income.Add(ctx, i); err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	s.emit(ctx, EventIncomeAdded)
	return i, nil
}

func (s *IncomeService) Delete(ctx context.Context, id string) error {
	if err := s.store.Income.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete income %s: %w", id, err)
	}
	return nil
}
