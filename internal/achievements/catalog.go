package achievements

import "masrofi/internal/core"

// Achievement ids.
const (
	FirstExpense = "first_expense"
	FirstIncome  = "first_income"
	Expense10    = "expense_10"
	Expense50    = "expense_50"
	Expense100   = "expense_100"
	Streak3      = "streak_3"
	Streak7      = "streak_7"
	Streak30     = "streak_30"
	Saver10      = "saver_10"
	Saver20      = "saver_20"
	Saver30      = "saver_30"
	FirstGoal    = "first_goal"
	GoalAchieved = "goal_achieved"
	DebtPaid     = "debt_paid"
	BudgetMaster = "budget_master"
	AIUser       = "ai_user"
)

// Definition is the static part of an achievement.
type Definition struct {
	ID          string
	Title       string
	Description string
	Points      int
	Target      float64
}

var Catalog = []Definition{
	{FirstExpense, "The beginning", "Record your first expense", 10, 1},
	{FirstIncome, "First income", "Record your first income", 10, 1},
	{Expense10, "Organized", "Record 10 expenses", 25, 10},
	{Expense50, "Professional", "Record 50 expenses", 50, 50},
	{Expense100, "Expert", "Record 100 expenses", 100, 100},

	{Streak3, "3 days in a row", "Log your spending 3 days in a row", 15, 3},
	{Streak7, "A full week", "Log your spending 7 days in a row", 30, 7},
	{Streak30, "A full month", "Log your spending 30 days in a row", 100, 30},

	{Saver10, "Beginner saver", "Save 10% of your income in a month", 25, 10},
	{Saver20, "Skilled saver", "Save 20% of your income in a month", 50, 20},
	{Saver30, "Pro saver", "Save 30% of your income in a month", 100, 30},

	{FirstGoal, "Ambitious", "Create your first savings goal", 15, 1},
	{GoalAchieved, "Goal getter", "Reach a savings goal", 75, 1},
	{DebtPaid, "Debt free", "Pay off at least one debt", 50, 1},
	{BudgetMaster, "Budget master", "Stay within your budget for a full month", 75, 1},
	{AIUser, "Smart analyst", "Use the AI assistant 5 times", 25, 5},
}

func definition(id string) (Definition, bool) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

func (d Definition) locked() core.Achievement {
	return core.Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Points:      d.Points,
		Target:      d.Target,
	}
}

// merge lays stored state over the catalog. Static fields always come from
// the catalog; unknown stored ids are dropped.
func merge(stored []core.Achievement) []core.Achievement {
	byID := make(map[string]core.Achievement, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}
	out := make([]core.Achievement, len(Catalog))
	for i, d := range Catalog {
		a := d.locked()
		if s, ok := byID[d.ID]; ok {
			a.Unlocked = s.Unlocked
			a.UnlockedAt = s.UnlockedAt
			a.Progress = s.Progress
		}
		out[i] = a
	}
	return out
}
