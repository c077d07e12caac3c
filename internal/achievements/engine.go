// Package achievements tracks one-way unlocks, points, levels and the daily
// activity streak.
package achievements

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"masrofi/internal/analysis"
	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

var ErrNegativePoints = errors.New("points can only be added")

type Engine struct {
	store    *storage.Store
	analysis *analysis.Service
	now      func() time.Time
	logger   *log.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store *storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: log.ForComponent(log.ComponentAchievements),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.analysis = analysis.NewService(store, e.now)
	return e
}

// List returns every catalog entry with its stored state.
func (e *Engine) List(ctx context.Context) []core.Achievement {
	return merge(e.store.Achievements.GetAll(ctx))
}

// ProgressSummary counts unlocked achievements.
type ProgressSummary struct {
	Unlocked   int `json:"unlocked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func (e *Engine) Progress(ctx context.Context) ProgressSummary {
	list := e.List(ctx)
	p := ProgressSummary{Total: len(list)}
	for _, a := range list {
		if a.Unlocked {
			p.Unlocked++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Unlocked) / float64(p.Total) * 100))
	}
	return p
}

func (e *Engine) Points(ctx context.Context) int {
	return e.store.Points.Get(ctx)
}

// AddPoints credits n points and returns the new total.
func (e *Engine) AddPoints(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, ErrNegativePoints
	}
	total, err := e.store.Points.Mutate(ctx, func(p int) (int, error) { return p + n, nil })
	if err != nil {
		return 0, fmt.Errorf("add points: %w", err)
	}
	return total, nil
}

func (e *Engine) Level(ctx context.Context) LevelInfo {
	return LevelFor(e.Points(ctx))
}

// apply runs update over the merged list, unlocks whatever reached its
// target and credits the points of new unlocks once.
func (e *Engine) apply(ctx context.Context, update func(*core.Achievement)) ([]core.Achievement, error) {
	var unlocked []core.Achievement
	stamp := core.FormatInstant(e.now())

	err := e.store.Achievements.Mutate(ctx, func(items []core.Achievement) ([]core.Achievement, error) {
		unlocked = nil
		list := merge(items)
		for i := range list {
			a := &list[i]
			update(a)
			if !a.Unlocked && a.Target > 0 && a.Progress >= a.Target {
				a.Unlocked = true
				a.UnlockedAt = stamp
				unlocked = append(unlocked, *a)
			}
			// Stored progress is for display only.
			a.Progress = math.Round(a.Progress*100) / 100
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update achievements: %w", err)
	}

	points := 0
	for _, a := range unlocked {
		points += a.Points
		e.logger.InfoContext(ctx, "Achievement unlocked",
			log.FieldAchievementID, a.ID,
			log.FieldPoints, a.Points)
	}
	if points > 0 {
		if _, err := e.AddPoints(ctx, points); err != nil {
			return unlocked, err
		}
	}
	return unlocked, nil
}

// Check recomputes the record-derived counters and returns what it newly
// unlocked. Running it again without new records unlocks nothing.
func (e *Engine) Check(ctx context.Context) ([]core.Achievement, error) {
	snap, err := e.analysis.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	month := core.CurrentMonth(e.now())
	progress := counters(snap, month)

	return e.apply(ctx, func(a *core.Achievement) {
		if v, ok := progress[a.ID]; ok {
			a.Progress = v
		}
	})
}

func counters(snap analysis.Snapshot, month string) map[string]float64 {
	expenses := float64(len(snap.Expenses))
	p := map[string]float64{
		FirstExpense: expenses,
		Expense10:    expenses,
		Expense50:    expenses,
		Expense100:   expenses,
		FirstIncome:  float64(len(snap.Income)),
		FirstGoal:    float64(len(snap.Goals)),
	}

	if income := snap.IncomeTotal(month); income.IsPositive() {
		rate, _ := core.Percent(income.Sub(snap.ExpenseTotal(month)), income)
		p[Saver10], p[Saver20], p[Saver30] = rate, rate, rate
	}

	var completed, paid float64
	for _, g := range snap.Goals {
		if g.IsComplete() {
			completed++
		}
	}
	for _, d := range snap.Debts {
		if d.Status == core.DebtPaid {
			paid++
		}
	}
	p[GoalAchieved] = completed
	p[DebtPaid] = paid

	if keptBudgetMonth(snap, month) {
		p[BudgetMaster] = 1
	}
	return p
}

// keptBudgetMonth reports whether some month before current had at least one
// budget and stayed within every budget of that month.
func keptBudgetMonth(snap analysis.Snapshot, current string) bool {
	seen := map[string]bool{}
	var months []string
	for _, b := range snap.Budgets {
		if b.Month < current && !seen[b.Month] {
			seen[b.Month] = true
			months = append(months, b.Month)
		}
	}
	sort.Strings(months)

	for _, m := range months {
		kept := true
		for _, b := range snap.BudgetsFor(m) {
			if snap.CategoryTotal(m, b.Category).GreaterThan(b.Amount) {
				kept = false
				break
			}
		}
		if kept {
			return true
		}
	}
	return false
}

// RecordAIUse counts one successful assistant call.
func (e *Engine) RecordAIUse(ctx context.Context) ([]core.Achievement, error) {
	return e.apply(ctx, func(a *core.Achievement) {
		if a.ID == AIUser {
			a.Progress++
		}
	})
}
