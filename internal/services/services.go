// Package services holds the write paths of the application. Each service
// validates input, persists it through the store and reports key events to
// the activity tracker. Side effects after a successful write are best
// effort: failures are logged and the write still counts.
package services

import (
	"context"
	"errors"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/notify"
	"masrofi/internal/storage"
)

var (
	ErrDuplicateBudget = errors.New("budget already exists for this category and month")
	ErrAlreadyPaid     = errors.New("already paid")
)

// Activity receives key events after they are persisted.
type Activity interface {
	RecordActivity(ctx context.Context, event string)
}

// Key events.
const (
	EventExpenseAdded     = "expense_added"
	EventIncomeAdded      = "income_added"
	EventDebtPaid         = "debt_paid"
	EventGoalCreated      = "goal_created"
	EventGoalContributed  = "goal_contributed"
	EventRecurringApplied = "recurring_applied"
)

type nopActivity struct{}

func (nopActivity) RecordActivity(context.Context, string) {}

// deps is shared by every service.
type deps struct {
	store    *storage.Store
	activity Activity
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
	logger   *log.Logger
}

type Option func(*deps)

func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(d *deps) { d.newID = fn }
}

func WithNotifier(n notify.Notifier) Option {
	return func(d *deps) { d.notifier = n }
}

func WithActivity(a Activity) Option {
	return func(d *deps) { d.activity = a }
}

// Services bundles the per-domain services over one store.
type Services struct {
	Expenses  *ExpenseService
	Income    *IncomeService
	Debts     *DebtService
	Budgets   *BudgetService
	Goals     *GoalService
	Recurring *RecurringService
	Bills     *BillService
	Wallets   *WalletService
	Shopping  *ShoppingService
	Settings  *SettingsService
}

func New(store *storage.Store, opts ...Option) *Services {
	d := &deps{
		store:    store,
		activity: nopActivity{},
		notifier: notify.Nop{},
		now:      time.Now,
		newID:    storage.NewID,
		logger:   log.ForComponent(log.ComponentServices),
	}
	for _, opt := range opts {
		opt(d)
	}

	expenses := &ExpenseService{d}
	return &Services{
		Expenses:  expenses,
		Income:    &IncomeService{d},
		Debts:     &DebtService{deps: d, expenses: expenses},
		Budgets:   &BudgetService{d},
		Goals:     &GoalService{d},
		Recurring: &RecurringService{deps: d, expenses: expenses},
		Bills:     &BillService{d},
		Wallets:   &WalletService{d},
		Shopping:  &ShoppingService{d},
		Settings:  &SettingsService{d},
	}
}

func (d *deps) timestamp() string { return core.FormatInstant(d.now()) }

func (d *deps) emit(ctx context.Context, event string) {
	d.activity.RecordActivity(ctx, event)
}
