package notify

import (
	"fmt"
	"time"

	"masrofi/internal/core"
)

const reminderHour = 9

// DebtReminders builds the reminders for a debt: 09:00 two days before the
// due date and 09:00 on the due date, in now's location. Reminders that
// would fire at or before now are dropped.
func DebtReminders(d core.Debt, now time.Time) []Notification {
	due, err := core.ParseInstant(d.DueDate)
	if err != nil {
		return nil
	}
	loc := now.Location()
	dueAt := time.Date(due.Year(), due.Month(), due.Day(), reminderHour, 0, 0, 0, loc)
	before := dueAt.AddDate(0, 0, -2)

	what := fmt.Sprintf("You owe %s %s", d.PersonName, d.TotalAmount)
	if d.Type == core.OwedToUs {
		what = fmt.Sprintf("%s owes you %s", d.PersonName, d.TotalAmount)
	}

	var out []Notification
	if before.After(now) {
		at := before
		out = append(out, Notification{
			ID:       d.ID + "_before",
			Kind:     KindDebtReminder,
			Title:    "Debt reminder",
			Body:     what + ", due in two days",
			Severity: string(core.SeverityInfo),
			NotifyAt: &at,
			Data:     map[string]any{"debtId": d.ID},
		})
	}
	if dueAt.After(now) {
		at := dueAt
		out = append(out, Notification{
			ID:       d.ID + "_due",
			Kind:     KindDebtReminder,
			Title:    "Debt due today",
			Body:     what + ", due today",
			Severity: string(core.SeverityWarning),
			NotifyAt: &at,
			Data:     map[string]any{"debtId": d.ID},
		})
	}
	return out
}
