package storage

// Logical keys of the persisted collections and singletons.
const (
	KeyExpenses          = "expenses"
	KeyDebts             = "debts"
	KeyShoppingLists     = "shoppingLists"
	KeyShoppingItems     = "shoppingItems"
	KeyBudgets           = "budgets"
	KeySavingsGoals      = "savingsGoals"
	KeyRecurringExpenses = "recurringExpenses"
	KeyWallets           = "wallets"
	KeyBillReminders     = "billReminders"
	KeySettings          = "settings"
	KeyIncome            = "income"
	KeyAchievements      = "achievements"
	KeyStreak            = "streak"
	KeyPoints            = "points"
	KeyAlerts            = "alerts"
	KeyAlertTimestamps   = "lastAlertSentTimestamps"
	KeyCloudBackupInfo   = "cloudBackupInfo"
	KeyThemeChoice       = "themeChoice"
)

// AllKeys lists every logical key.
var AllKeys = []string{
	KeyExpenses, KeyDebts, KeyShoppingLists, KeyShoppingItems, KeyBudgets,
	KeySavingsGoals, KeyRecurringExpenses, KeyWallets, KeyBillReminders,
	KeySettings, KeyIncome, KeyAchievements, KeyStreak, KeyPoints, KeyAlerts,
	KeyAlertTimestamps, KeyCloudBackupInfo, KeyThemeChoice,
}
