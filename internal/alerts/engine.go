// Package alerts evaluates spending and bill rules and keeps the capped alert
// log. Every rule has a rate-limit key; a key that fired within the last 24
// hours is suppressed.
package alerts

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"masrofi/internal/analysis"
	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/notify"
	"masrofi/internal/storage"
)

const (
	MaxAlerts = 50

	BudgetWarningPercent = 80
	BudgetDangerPercent  = 100

	RateLimitWindow = 24 * time.Hour
)

var (
	dailySpikeMultiplier = decimal.NewFromFloat(1.5)
	savingsTipRatio      = decimal.NewFromFloat(0.7)
)

// Rate-limit keys for the rules without an entity.
const (
	KeyIncomeExceeded = "income_exceeded"
	KeyDailySpike     = "daily_spike"
	KeySavingsTip     = "savings_tip"
)

// Engine evaluates alert rules against the store.
type Engine struct {
	store    *storage.Store
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
	logger   *log.Logger
}

type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides storage.NewID.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(store *storage.Store, notifier notify.Notifier, opts ...Option) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	e := &Engine{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    storage.NewID,
		logger:   log.ForComponent(log.ComponentAlerts),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pass tracks one evaluation run.
type pass struct {
	e     *Engine
	now   time.Time
	sent  map[string]string
	fired []core.Alert
}

func (e *Engine) newPass(ctx context.Context) *pass {
	sent := e.store.AlertTimestamps.Get(ctx)
	if sent == nil {
		sent = map[string]string{}
	}
	return &pass{e: e, now: e.now().UTC(), sent: sent}
}

// recently reports whether key fired within the rate-limit window.
// Unparseable timestamps count as never sent.
func (p *pass) recently(key string) bool {
	ts, ok := p.sent[key]
	if !ok {
		return false
	}
	at, err := core.ParseInstant(ts)
	if err != nil {
		return false
	}
	return p.now.Sub(at) < RateLimitWindow
}

// fire records the alert, notifies and marks key. Notification failures are
// logged; storage failures abort the pass.
func (p *pass) fire(ctx context.Context, key string, a core.Alert) error {
	a.ID = p.e.newID()
	a.CreatedAt = core.FormatInstant(p.now)

	err := p.e.store.Alerts.Mutate(ctx, func(items []core.Alert) ([]core.Alert, error) {
		items = append([]core.Alert{a}, items...)
		if len(items) > MaxAlerts {
			items = items[:MaxAlerts]
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("record alert %s: %w", key, err)
	}

	n := notify.Notification{
		ID:       a.ID,
		Kind:     string(a.Type),
		Title:    a.Title,
		Body:     a.Message,
		Severity: string(a.Severity),
		Data:     a.Data,
	}
	if err := p.e.notifier.Notify(ctx, n); err != nil {
		p.e.logger.WarnContext(ctx, "Alert notification failed", log.FieldAlertKey, key, log.FieldError, err)
	}

	stamp := core.FormatInstant(p.now)
	_, err = p.e.store.AlertTimestamps.Mutate(ctx, func(m map[string]string) (map[string]string, error) {
		if m == nil {
			m = map[string]string{}
		}
		m[key] = stamp
		return m, nil
	})
	if err != nil {
		return fmt.Errorf("mark alert %s: %w", key, err)
	}
	p.sent[key] = stamp
	p.fired = append(p.fired, a)

	p.e.logger.InfoContext(ctx, "Alert fired",
		log.FieldAlertKey, key,
		log.FieldAlertType, string(a.Type),
		"severity", string(a.Severity))
	return nil
}

func (p *pass) maybeFire(ctx context.Context, key string, build func() core.Alert) error {
	if p.recently(key) {
		return nil
	}
	return p.fire(ctx, key, build())
}

// reached reports spend*100 >= amount*pct exactly, without float rounding.
func reached(spend, amount core.Money, pct int64) bool {
	p := decimal.NewFromInt(pct)
	return spend.Decimal().Mul(decimal.NewFromInt(100)).GreaterThanOrEqual(amount.Decimal().Mul(p))
}

func budgetLabel(b core.Budget) string {
	if b.Category == core.CategoryAll {
		return "monthly"
	}
	return core.CategoryLabel(b.Category)
}

// CheckSpending runs the budget, income, daily-spike and savings rules for
// the current month and returns the alerts that fired.
func (e *Engine) CheckSpending(ctx context.Context) ([]core.Alert, error) {
	p := e.newPass(ctx)
	month := core.CurrentMonth(p.now)
	snap := analysis.Snapshot{
		Expenses: e.store.Expenses.GetAll(ctx),
		Income:   e.store.Income.GetAll(ctx),
		Budgets:  e.store.Budgets.GetAll(ctx),
	}

	totalExpenses := snap.ExpenseTotal(month)
	totalIncome := snap.IncomeTotal(month)

	for _, b := range snap.BudgetsFor(month) {
		if !b.Amount.IsPositive() {
			continue
		}
		spend := snap.CategoryTotal(month, b.Category)
		pct, _ := core.Percent(spend, b.Amount)
		data := map[string]any{"budgetId": b.ID, "category": b.Category, "percentage": pct}

		switch {
		case reached(spend, b.Amount, BudgetDangerPercent):
			err := p.maybeFire(ctx, "budget_exceeded_"+b.ID, func() core.Alert {
				return core.Alert{
					Type:     core.AlertBudgetExceeded,
					Title:    "Budget exceeded",
					Message:  fmt.Sprintf("You have exceeded your %s budget by %.0f%%", budgetLabel(b), math.Round(pct-100)),
					Severity: core.SeverityDanger,
					Data:     data,
				}
			})
			if err != nil {
				return p.fired, err
			}
		case reached(spend, b.Amount, BudgetWarningPercent):
			err := p.maybeFire(ctx, "budget_warning_"+b.ID, func() core.Alert {
				return core.Alert{
					Type:     core.AlertBudgetWarning,
					Title:    "Budget warning",
					Message:  fmt.Sprintf("You have used %.0f%% of your %s budget", math.Round(pct), budgetLabel(b)),
					Severity: core.SeverityWarning,
					Data:     data,
				}
			})
			if err != nil {
				return p.fired, err
			}
		}
	}

	if totalIncome.IsPositive() && totalExpenses.GreaterThan(totalIncome) {
		over := totalExpenses.Sub(totalIncome)
		err := p.maybeFire(ctx, KeyIncomeExceeded, func() core.Alert {
			return core.Alert{
				Type:     core.AlertOverspending,
				Title:    "Overspending",
				Message:  fmt.Sprintf("Your expenses this month exceed your income by %d", over.Round()),
				Severity: core.SeverityDanger,
				Data:     map[string]any{"totalExpenses": totalExpenses, "totalIncome": totalIncome},
			}
		})
		if err != nil {
			return p.fired, err
		}
	}

	if day := p.now.Day(); day > 1 {
		avg := totalExpenses.Div(int64(day))
		today := snap.DayTotal(core.DayKey(p.now))
		if avg.IsPositive() && today.GreaterThan(avg.Mul(dailySpikeMultiplier)) {
			ratio, _ := core.Percent(today, avg)
			err := p.maybeFire(ctx, KeyDailySpike, func() core.Alert {
				return core.Alert{
					Type:     core.AlertOverspending,
					Title:    "High spending today",
					Message:  fmt.Sprintf("You spent %.0f%% more than usual today", math.Round(ratio-100)),
					Severity: core.SeverityWarning,
					Data:     map[string]any{"todayExpenses": today, "avgDailySpending": avg.Rounded()},
				}
			})
			if err != nil {
				return p.fired, err
			}
		}
	}

	if totalIncome.IsPositive() && totalExpenses.LessThan(totalIncome.Mul(savingsTipRatio)) {
		rate, _ := core.Percent(totalIncome.Sub(totalExpenses), totalIncome)
		rate = math.Round(rate)
		err := p.maybeFire(ctx, KeySavingsTip, func() core.Alert {
			return core.Alert{
				Type:     core.AlertSavingsTip,
				Title:    "Well done!",
				Message:  fmt.Sprintf("Your savings rate this month is %.0f%%! Keep it up", rate),
				Severity: core.SeverityInfo,
				Data:     map[string]any{"savingsRate": rate},
			}
		})
		if err != nil {
			return p.fired, err
		}
	}

	return p.fired, nil
}

// DaysUntil is ceil((due - now) / 24h). Bare dates are midnight UTC.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// CheckBills fires reminders for unpaid bills: info at notifyDaysBefore days
// out, warning on the due day and danger once overdue. Each stage has its
// own key, so all three can fire for one bill over time.
func (e *Engine) CheckBills(ctx context.Context) ([]core.Alert, error) {
	p := e.newPass(ctx)

	for _, b := range e.store.BillReminders.GetAll(ctx) {
		if b.IsPaid {
			continue
		}
		due, err := core.ParseInstant(b.DueDate)
		if err != nil {
			e.logger.WarnContext(ctx, "Skipping bill with unreadable due date", log.FieldRecordID, b.ID, "due_date", b.DueDate)
			continue
		}
		days := DaysUntil(due, p.now)
		data := map[string]any{"billId": b.ID, "daysUntilDue": days}

		if days == b.NotifyDaysBefore {
			err := p.maybeFire(ctx, "bill_"+b.ID+"_before", func() core.Alert {
				return core.Alert{
					Type:     core.AlertBillReminder,
					Title:    "Bill reminder",
					Message:  fmt.Sprintf("Bill %q is due in %d days (%s)", b.Title, days, b.Amount),
					Severity: core.SeverityInfo,
					Data:     data,
				}
			})
			if err != nil {
				return p.fired, err
			}
		}
		if days == 0 {
			err := p.maybeFire(ctx, "bill_"+b.ID+"_due", func() core.Alert {
				return core.Alert{
					Type:     core.AlertBillReminder,
					Title:    "Bill due today",
					Message:  fmt.Sprintf("Bill %q is due today (%s)", b.Title, b.Amount),
					Severity: core.SeverityWarning,
					Data:     data,
				}
			})
			if err != nil {
				return p.fired, err
			}
		}
		if days < 0 {
			err := p.maybeFire(ctx, "bill_"+b.ID+"_overdue", func() core.Alert {
				return core.Alert{
					Type:     core.AlertBillReminder,
					Title:    "Bill overdue",
					Message:  fmt.Sprintf("Bill %q is %d days overdue", b.Title, -days),
					Severity: core.SeverityDanger,
					Data:     data,
				}
			})
			if err != nil {
				return p.fired, err
			}
		}
	}
	return p.fired, nil
}
