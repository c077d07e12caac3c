package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"masrofi/internal/core"
	"masrofi/internal/log"
)

// Store bundles the typed collections and singletons over one backend.
type Store struct {
	backend Backend
	locks   *keyLocks
	logger  *log.Logger

	Expenses          Collection[core.Expense]
	Income            Collection[core.Income]
	Debts             Collection[core.Debt]
	Budgets           Collection[core.Budget]
	SavingsGoals      Collection[core.SavingsGoal]
	RecurringExpenses Collection[core.RecurringExpense]
	BillReminders     Collection[core.BillReminder]
	Wallets           Collection[core.Wallet]
	ShoppingLists     Collection[core.ShoppingList]
	ShoppingItems     Collection[core.ShoppingItem]
	Alerts            Collection[core.Alert]
	Achievements      Collection[core.Achievement]

	Settings        Value[core.Settings]
	Streak          Value[core.Streak]
	Points          Value[int]
	AlertTimestamps Value[map[string]string]
	CloudBackup     Value[core.CloudBackupInfo]
	Theme           Value[string]
}

func New(backend Backend) *Store {
	s := &Store{
		backend: backend,
		locks:   newKeyLocks(),
		logger:  log.ForComponent(log.ComponentStorage),
	}

	s.Expenses = newCollection[core.Expense](s, KeyExpenses)
	s.Income = newCollection[core.Income](s, KeyIncome)
	s.Debts = newCollection[core.Debt](s, KeyDebts)
	s.Budgets = newCollection[core.Budget](s, KeyBudgets)
	s.SavingsGoals = newCollection[core.SavingsGoal](s, KeySavingsGoals)
	s.RecurringExpenses = newCollection[core.RecurringExpense](s, KeyRecurringExpenses)
	s.BillReminders = newCollection[core.BillReminder](s, KeyBillReminders)
	s.Wallets = newCollection[core.Wallet](s, KeyWallets)
	s.ShoppingLists = newCollection[core.ShoppingList](s, KeyShoppingLists)
	s.ShoppingItems = newCollection[core.ShoppingItem](s, KeyShoppingItems)
	s.Alerts = newCollection[core.Alert](s, KeyAlerts)
	s.Achievements = newCollection[core.Achievement](s, KeyAchievements)

	s.Settings = newValue(s, KeySettings, core.DefaultSettings)
	s.Streak = newValue(s, KeyStreak, func() core.Streak { return core.Streak{} })
	s.Points = newValue(s, KeyPoints, func() int { return 0 })
	s.AlertTimestamps = newValue(s, KeyAlertTimestamps, func() map[string]string { return map[string]string{} })
	s.CloudBackup = newValue(s, KeyCloudBackupInfo, func() core.CloudBackupInfo { return core.CloudBackupInfo{} })
	s.Theme = newValue(s, KeyThemeChoice, func() string { return "" })

	return s
}

// NewID returns a fresh record id.
func NewID() string { return uuid.NewString() }

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Raw returns the stored JSON for key as-is. Unreadable or non-JSON data is
// reported as absent.
func (s *Store) Raw(ctx context.Context, key string) (json.RawMessage, bool) {
	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Storage read failed", log.FieldKey, key, log.FieldError, err)
		return nil, false
	}
	if !found || !json.Valid(data) {
		return nil, false
	}
	return json.RawMessage(data), true
}

// SetRaw overwrites key with already encoded JSON.
func (s *Store) SetRaw(ctx context.Context, key string, data json.RawMessage) error {
	unlock, err := s.locks.acquire(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// read decodes key into dst. It reports false when the key is absent or the
// stored data cannot be read or decoded.
func (s *Store) read(ctx context.Context, key string, dst any) bool {
	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Storage read failed, using default", log.FieldKey, key, log.FieldError, err)
		return false
	}
	if !found || isNull(data) {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WarnContext(ctx, "Malformed stored data, using default", log.FieldKey, key, log.FieldError, err)
		return false
	}
	return true
}

// isNull reports an empty or JSON null payload, which reads as absent.
func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
