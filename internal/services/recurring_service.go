package services

import (
	"context"
	"fmt"

	"masrofi/internal/core"
	"masrofi/internal/log"
)

// maxCatchUp bounds how many missed occurrences one run materializes per
// template.
const maxCatchUp = 31

type RecurringService struct {
	*deps
	expenses *ExpenseService
}

func (s *RecurringService) List(ctx context.Context) []core.RecurringExpense {
	return s.store.RecurringExpenses.GetAll(ctx)
}

// Create saves an active template. A missing next date means today.
func (s *RecurringService) Create(ctx context.Context, r core.RecurringExpense) (core.RecurringExpense, error) {
	if r.NextDate == "" {
		r.NextDate = core.DayKey(s.now())
	}
	if err := r.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	if r.DayOfMonth == 0 {
		if d, err := core.ParseInstant(r.NextDate); err == nil {
			r.DayOfMonth = d.Day()
		}
	}
	r.ID = s.newID()
	r.IsActive = true
	if err := s.store.RecurringExpenses.Add(ctx, r); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	return r, nil
}

func (s *RecurringService) Delete(ctx context.Context, id string) error {
	if err := s.store.RecurringExpenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recurring expense %s: %w", id, err)
	}
	return nil
}

// ProcessDue creates an expense for every occurrence of an active template
// dated today or earlier and moves nextDate past today. It returns the number
// of expenses created.
func (s *RecurringService) ProcessDue(ctx context.Context) (int, error) {
	now := s.now()
	today := core.DayKey(now)
	templates := s.store.RecurringExpenses.Filter(ctx, func(r core.RecurringExpense) bool { return r.IsActive })

	s.logger.InfoContext(ctx, "Processing recurring expenses",
		"total_active", len(templates),
		"processing_date", today)

	created := 0
	for _, r := range templates {
		sched, err := SchedulerFor(r.Frequency)
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping recurring expense", log.FieldRecordID, r.ID, log.FieldError, err)
			continue
		}
		next, err := core.ParseInstant(r.NextDate)
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping recurring expense with bad next date", log.FieldRecordID, r.ID, "next_date", r.NextDate)
			continue
		}

		anchor := r.DayOfMonth
		if anchor == 0 {
			anchor = next.Day()
		}

		var dates []string
		for i := 0; i < maxCatchUp && next.Format(core.DayLayout) <= today; i++ {
			dates = append(dates, next.Format(core.DayLayout))
			next = sched.Next(next, anchor)
		}
		for next.Format(core.DayLayout) <= today {
			next = sched.Next(next, anchor)
		}
		if len(dates) == 0 {
			continue
		}

		// nextDate moves before any expense is written.
		nextDate := next.Format(core.DayLayout)
		if _, err := s.store.RecurringExpenses.Update(ctx, r.ID, func(t *core.RecurringExpense) error {
			t.NextDate = nextDate
			t.DayOfMonth = anchor
			return nil
		}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to advance recurring expense", log.FieldRecordID, r.ID, log.FieldError, err)
			continue
		}

		for _, date := range dates {
			e := core.Expense{
				Title:       r.Title,
				Amount:      r.Amount,
				Category:    r.Category,
				Date:        date,
				RecurringID: r.ID,
			}
			if _, err := s.expenses.add(ctx, e); err != nil {
				s.logger.ErrorContext(ctx, "Failed to create expense from recurring template",
					"recurring_id", r.ID,
					"title", r.Title,
					log.FieldError, err)
				continue
			}
			created++
		}
		s.logger.InfoContext(ctx, "Created expenses from recurring template",
			"recurring_id", r.ID,
			"occurrences", len(dates),
			"next_date", nextDate,
			"frequency", string(r.Frequency))
	}

	if created > 0 {
		s.emit(ctx, EventRecurringApplied)
	}
	s.logger.InfoContext(ctx, "Recurring expense processing complete",
		"processed", created,
		"total_checked", len(templates))
	return created, nil
}
