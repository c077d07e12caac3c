package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
)

type BillService struct {
	*deps
}

func (s *BillService) List(ctx context.Context) []core.BillReminder {
	return s.store.BillReminders.GetAll(ctx)
}

func (s *BillService) Create(ctx context.Context, b core.BillReminder) (core.BillReminder, error) {
	if b.Category != "" && !core.IsCategory(b.Category) {
		return core.BillReminder{}, core.ErrInvalidCategory
	}
	if err := b.Validate(); err != nil {
		return core.BillReminder{}, err
	}
	b.ID = s.newID()
	b.IsPaid = false
	if err := s.store.BillReminders.Add(ctx, b); err != nil {
		return core.BillReminder{}, fmt.Errorf("save bill: %w", err)
	}
	return b, nil
}

// Pay marks a bill paid. Paid bills drop out of forecasts and reminders.
func (s *BillService) Pay(ctx context.Context, id string) (core.BillReminder, error) {
	b, err := s.store.BillReminders.Update(ctx, id, func(b *core.BillReminder) error {
		if b.IsPaid {
			return ErrAlreadyPaid
		}
		b.IsPaid = true
		return nil
	})
	if err != nil {
		return core.BillReminder{}, fmt.Errorf("pay bill %s: %w", id, err)
	}
	return b, nil
}

func (s *BillService) Delete(ctx context.Context, id string) error {
	if err := s.store.BillReminders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bill %s: %w", id, err)
	}
	return nil
}
