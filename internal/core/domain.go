package core

import (
	"errors"
	"strings"
)

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

const (
	OwedToUs DebtType = "owed_to_us"
	OwedByUs DebtType = "owed_by_us"

	DebtActive DebtStatus = "active"
	DebtPaid   DebtStatus = "paid"
)

type (
	Frequency  string
	DebtType   string
	DebtStatus string

	// Record is anything stored in a collection under a stable id.
	Record interface {
		RecordID() string
	}

	Expense struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Amount      Money  `json:"amount"`
		Currency    string `json:"currency,omitempty"`
		Category    string `json:"category"`
		Date        string `json:"date"`
		Notes       string `json:"notes,omitempty"`
		WalletID    string `json:"walletId,omitempty"`
		RecurringID string `json:"recurringId,omitempty"`
	}

	Income struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Amount      Money     `json:"amount"`
		Date        string    `json:"date"`
		IsRecurring bool      `json:"isRecurring"`
		Frequency   Frequency `json:"frequency,omitempty"`
		Notes       string    `json:"notes,omitempty"`
	}

	Debt struct {
		ID          string     `json:"id"`
		PersonName  string     `json:"personName"`
		Type        DebtType   `json:"type"`
		TotalAmount Money      `json:"totalAmount"`
		DueDate     string     `json:"dueDate"`
		Status      DebtStatus `json:"status"`
		PaidDate    string     `json:"paidDate,omitempty"`
		Notes       string     `json:"notes,omitempty"`
	}

	Budget struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Month    string `json:"month"`
		Spent    Money  `json:"spent"`
	}

	SavingsGoal struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		TargetAmount  Money  `json:"targetAmount"`
		CurrentAmount Money  `json:"currentAmount"`
		Color         string `json:"color,omitempty"`
		CreatedAt     string `json:"createdAt"`
		Deadline      string `json:"deadline,omitempty"`
	}

	// RecurringExpense is a template for expenses. DayOfMonth anchors monthly
	// and yearly occurrences so a clamp to a short month does not carry over.
	RecurringExpense struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Amount     Money     `json:"amount"`
		Category   string    `json:"category"`
		Frequency  Frequency `json:"frequency"`
		NextDate   string    `json:"nextDate"`
		IsActive   bool      `json:"isActive"`
		DayOfMonth int       `json:"dayOfMonth,omitempty"`
	}

	BillReminder struct {
		ID               string `json:"id"`
		Title            string `json:"title"`
		Amount           Money  `json:"amount"`
		DueDate          string `json:"dueDate"`
		IsPaid           bool   `json:"isPaid"`
		NotifyDaysBefore int    `json:"notifyDaysBefore"`
		Category         string `json:"category,omitempty"`
	}

	Wallet struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Type      string `json:"type"`
		Balance   Money  `json:"balance"`
		Color     string `json:"color,omitempty"`
		IsDefault bool   `json:"isDefault"`
	}

	ShoppingList struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	}

	ShoppingItem struct {
		ID        string `json:"id"`
		ListID    string `json:"listId"`
		Name      string `json:"name"`
		Qty       int    `json:"qty"`
		IsBought  bool   `json:"isBought"`
		Price     *Money `json:"price,omitempty"`
		CreatedAt string `json:"createdAt"`
	}

	Settings struct {
		Currency             string `json:"currency"`
		NotificationsEnabled bool   `json:"notificationsEnabled"`
		BiometricEnabled     bool   `json:"biometricEnabled"`
		Theme                string `json:"theme"`
		Language             string `json:"language"`
	}

	// CloudBackupInfo tracks the last cloud backup and restore.
	CloudBackupInfo struct {
		LastBackup  string `json:"lastBackup,omitempty"`
		LastRestore string `json:"lastRestore,omitempty"`
		IsEnabled   bool   `json:"isEnabled"`
		FileID      string `json:"fileId,omitempty"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrEmptyTitle          = errors.New("empty title")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidDebtType     = errors.New("invalid debt type")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidDayOfMonth   = errors.New("day of month must be between 1 and 31")
	ErrInvalidNotifyDays   = errors.New("notify days before cannot be negative")
	ErrTitleTooLong        = errors.New("title too long (max 200 characters)")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

const maxTitleLen = 200

func (e Expense) RecordID() string          { return e.ID }
func (i Income) RecordID() string           { return i.ID }
func (d Debt) RecordID() string             { return d.ID }
func (b Budget) RecordID() string           { return b.ID }
func (g SavingsGoal) RecordID() string      { return g.ID }
func (r RecurringExpense) RecordID() string { return r.ID }
func (b BillReminder) RecordID() string     { return b.ID }
func (w Wallet) RecordID() string           { return w.ID }
func (l ShoppingList) RecordID() string     { return l.ID }
func (i ShoppingItem) RecordID() string     { return i.ID }

// DefaultSettings is what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "TRY",
		NotificationsEnabled: true,
		BiometricEnabled:     false,
		Theme:                "dark",
		Language:             "ar",
	}
}

func validateTitle(s string, empty error) error {
	if strings.TrimSpace(s) == "" {
		return empty
	}
	if len(s) > maxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if err := validateTitle(e.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !IsCategory(e.Category) {
		return ErrInvalidCategory
	}
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	return nil
}

func (i Income) Validate() error {
	if err := validateTitle(i.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := ValidateDate(i.Date); err != nil {
		return err
	}
	if i.IsRecurring {
		switch i.Frequency {
		case Monthly, Weekly, Biweekly:
		default:
			return ErrInvalidFrequency
		}
	}
	return nil
}

func (d Debt) Validate() error {
	if err := validateTitle(d.PersonName, ErrEmptyName); err != nil {
		return err
	}
	switch d.Type {
	case OwedToUs, OwedByUs:
	default:
		return ErrInvalidDebtType
	}
	if err := d.TotalAmount.Validate(); err != nil {
		return err
	}
	return ValidateDate(d.DueDate)
}

// IsActive reports whether the debt is still open.
func (d Debt) IsActive() bool { return d.Status != DebtPaid }

func (b Budget) Validate() error {
	if b.Category != CategoryAll && !IsCategory(b.Category) {
		return ErrInvalidCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	return ValidateMonth(b.Month)
}

func (g SavingsGoal) Validate() error {
	if err := validateTitle(g.Name, ErrEmptyName); err != nil {
		return err
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// IsComplete reports whether the goal reached its target.
func (g SavingsGoal) IsComplete() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

func (r RecurringExpense) Validate() error {
	if err := validateTitle(r.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !IsCategory(r.Category) {
		return ErrInvalidCategory
	}
	switch r.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return ErrInvalidFrequency
	}
	if r.DayOfMonth < 0 || r.DayOfMonth > 31 {
		return ErrInvalidDayOfMonth
	}
	if r.NextDate != "" {
		return ValidateDate(r.NextDate)
	}
	return nil
}

func (b BillReminder) Validate() error {
	if err := validateTitle(b.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.NotifyDaysBefore < 0 {
		return ErrInvalidNotifyDays
	}
	return ValidateDate(b.DueDate)
}

func (w Wallet) Validate() error {
	return validateTitle(w.Name, ErrEmptyName)
}

func (l ShoppingList) Validate() error {
	return validateTitle(l.Name, ErrEmptyName)
}

func (i ShoppingItem) Validate() error {
	if err := validateTitle(i.Name, ErrEmptyName); err != nil {
		return err
	}
	if i.Qty < 1 {
		return ErrInvalidQuantity
	}
	if i.Price != nil && i.Price.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (s Settings) Validate() error {
	if !IsCurrency(s.Currency) {
		return ErrUnsupportedCurrency
	}
	return nil
}
