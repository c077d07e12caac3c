package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/notify"
)

type DebtService struct {
	*deps
	expenses *ExpenseService
}

func (s *DebtService) List(ctx context.Context) []core.Debt {
	return s.store.Debts.GetAll(ctx)
}

// Create saves an active debt and schedules its due-date reminders.
func (s *DebtService) Create(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	d.ID = s.newID()
	d.Status = core.DebtActive
	d.PaidDate = ""

	if err := s.store.Debts.Add(ctx, d); err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}
	s.scheduleReminders(ctx, d)
	return d, nil
}

func (s *DebtService) scheduleReminders(ctx context.Context, d core.Debt) {
	for _, n := range notify.DebtReminders(d, s.now()) {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "Failed to schedule debt reminder",
				log.FieldRecordID, d.ID,
				"reminder", n.ID,
				log.FieldError, err)
		}
	}
}

// Pay marks a debt paid. Paying a debt we owe also records the payment as an
// expense in the debts category.
func (s *DebtService) Pay(ctx context.Context, id string) (core.Debt, error) {
	paidAt := s.timestamp()
	d, err := s.store.Debts.Update(ctx, id, func(d *core.Debt) error {
		if d.Status == core.DebtPaid {
			return ErrAlreadyPaid
		}
		d.Status = core.DebtPaid
		d.PaidDate = paidAt
		return nil
	})
	if err != nil {
		return core.Debt{}, fmt.Errorf("pay debt %s: %w", id, err)
	}

	if d.Type == core.OwedByUs {
		payment := core.Expense{
			Title:    "Debt payment: " + d.PersonName,
			Amount:   d.TotalAmount,
			Category: "debts",
			Date:     paidAt,
		}
		if _, err := s.expenses.add(ctx, payment); err != nil {
			return d, fmt.Errorf("record debt payment: %w", err)
		}
	}
	s.emit(ctx, EventDebtPaid)
	return d, nil
}

func (s *DebtService) Delete(ctx context.Context, id string) error {
	if err := s.store.Debts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete debt %s: %w", id, err)
	}
	return nil
}
