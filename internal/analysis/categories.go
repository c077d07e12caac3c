package analysis

import (
	"cmp"
	"math"
	"slices"

	"masrofi/internal/core"
)

// CategoryDelta compares one category across month and the month before.
type CategoryDelta struct {
	Category      string     `json:"category"`
	Label         string     `json:"label"`
	ThisMonth     core.Money `json:"thisMonth"`
	LastMonth     core.Money `json:"lastMonth"`
	Change        core.Money `json:"change"`
	ChangePercent float64    `json:"changePercent"`
	IsNew         bool       `json:"isNew"`
}

// changePercent is 0 when both are zero, 100 when spending started this
// month, otherwise the rounded relative change.
func changePercent(this, last core.Money) (pct float64, isNew bool) {
	if last.IsZero() {
		if this.IsPositive() {
			return 100, true
		}
		return 0, false
	}
	p, ok := core.Percent(this.Sub(last), last)
	if !ok {
		return 0, false
	}
	return math.Round(p), false
}

// CategoryAnalysis walks the category catalog in order and reports the
// categories with any activity in month or the month before.
func (s Snapshot) CategoryAnalysis(month string) []CategoryDelta {
	prev := core.PreviousMonth(month)
	thisBy := s.ByCategory(month)
	lastBy := s.ByCategory(prev)

	out := []CategoryDelta{}
	for _, c := range core.Categories {
		this, last := thisBy[c.ID], lastBy[c.ID]
		if this.IsZero() && last.IsZero() {
			continue
		}
		pct, isNew := changePercent(this, last)
		out = append(out, CategoryDelta{
			Category:      c.ID,
			Label:         c.Label,
			ThisMonth:     this,
			LastMonth:     last,
			Change:        this.Sub(last),
			ChangePercent: pct,
			IsNew:         isNew,
		})
	}
	return out
}

// MonthTotals is one side of a comparison.
type MonthTotals struct {
	Month      string                `json:"month"`
	Total      core.Money            `json:"total"`
	ByCategory map[string]core.Money `json:"byCategory"`
}

// CategoryChange is one entry of a comparison's per-category delta list.
type CategoryChange struct {
	Category      string     `json:"category"`
	Label         string     `json:"label"`
	Change        core.Money `json:"change"`
	ChangePercent float64    `json:"changePercent"`
}

// Comparison puts month next to the month before it.
type Comparison struct {
	ThisMonth       MonthTotals      `json:"thisMonth"`
	LastMonth       MonthTotals      `json:"lastMonth"`
	Change          core.Money       `json:"change"`
	ChangePercent   float64          `json:"changePercent"`
	CategoryChanges []CategoryChange `json:"categoryChanges"`
}

// MonthlyComparison covers every category seen in either month, including
// ids outside the catalog, sorted by absolute percent change descending.
func (s Snapshot) MonthlyComparison(month string) Comparison {
	prev := core.PreviousMonth(month)
	thisBy := s.ByCategory(month)
	lastBy := s.ByCategory(prev)
	thisTotal := s.ExpenseTotal(month)
	lastTotal := s.ExpenseTotal(prev)

	seen := make(map[string]struct{}, len(thisBy)+len(lastBy))
	for id := range thisBy {
		seen[id] = struct{}{}
	}
	for id := range lastBy {
		seen[id] = struct{}{}
	}

	changes := make([]CategoryChange, 0, len(seen))
	for id := range seen {
		this, last := thisBy[id], lastBy[id]
		pct, _ := changePercent(this, last)
		changes = append(changes, CategoryChange{
			Category:      id,
			Label:         core.CategoryLabel(id),
			Change:        this.Sub(last),
			ChangePercent: pct,
		})
	}
	slices.SortFunc(changes, func(a, b CategoryChange) int {
		if c := cmp.Compare(math.Abs(b.ChangePercent), math.Abs(a.ChangePercent)); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	var total float64
	if p, ok := core.Percent(thisTotal.Sub(lastTotal), lastTotal); ok {
		total = math.Round(p)
	}

	return Comparison{
		ThisMonth:       MonthTotals{Month: month, Total: thisTotal, ByCategory: thisBy},
		LastMonth:       MonthTotals{Month: prev, Total: lastTotal, ByCategory: lastBy},
		Change:          thisTotal.Sub(lastTotal),
		ChangePercent:   total,
		CategoryChanges: changes,
	}
}
