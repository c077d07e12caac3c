package core

const (
	AlertOverspending   AlertType = "overspending"
	AlertBudgetWarning  AlertType = "budget_warning"
	AlertBudgetExceeded AlertType = "budget_exceeded"
	AlertBillReminder   AlertType = "bill_reminder"
	AlertSavingsTip     AlertType = "savings_tip"

	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

type (
	AlertType string
	Severity  string

	// Alert is one entry of the capped alert log.
	Alert struct {
		ID        string         `json:"id"`
		Type      AlertType      `json:"type"`
		Title     string         `json:"title"`
		Message   string         `json:"message"`
		Severity  Severity       `json:"severity"`
		CreatedAt string         `json:"createdAt"`
		Read      bool           `json:"read"`
		Data      map[string]any `json:"data,omitempty"`
	}

	// Achievement is the persisted state of one catalog entry.
	Achievement struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Points      int     `json:"points"`
		Unlocked    bool    `json:"unlocked"`
		UnlockedAt  string  `json:"unlockedAt,omitempty"`
		Progress    float64 `json:"progress"`
		Target      float64 `json:"target,omitempty"`
	}

	// Streak counts consecutive active days.
	Streak struct {
		Current  int    `json:"current"`
		Longest  int    `json:"longest"`
		LastDate string `json:"lastDate"`
	}
)

func (a Alert) RecordID() string       { return a.ID }
func (a Achievement) RecordID() string { return a.ID }
