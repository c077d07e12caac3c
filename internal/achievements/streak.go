package achievements

import (
	"context"
	"fmt"
	"time"

	"masrofi/internal/core"
)

// StreakUpdate is the outcome of recording today's activity.
type StreakUpdate struct {
	Streak   core.Streak        `json:"streak"`
	IsNewDay bool               `json:"isNewDay"`
	Unlocked []core.Achievement `json:"unlocked,omitempty"`
}

var streakIDs = map[string]bool{Streak3: true, Streak7: true, Streak30: true}

// nextStreak applies one day of activity. Same day is a no-op, yesterday
// extends the streak, anything else restarts it at 1.
func nextStreak(s core.Streak, now time.Time) (core.Streak, bool) {
	today := core.DayKey(now)
	if s.LastDate == today {
		return s, false
	}
	if s.LastDate == core.DayKey(now.Add(-24*time.Hour)) {
		s.Current++
	} else {
		s.Current = 1
	}
	s.Longest = max(s.Longest, s.Current)
	s.LastDate = today
	return s, true
}

// UpdateStreak records activity for today and advances the streak
// achievements, which unlock once current reaches their target.
func (e *Engine) UpdateStreak(ctx context.Context) (StreakUpdate, error) {
	now := e.now()
	var isNew bool
	s, err := e.store.Streak.Mutate(ctx, func(s core.Streak) (core.Streak, error) {
		var next core.Streak
		next, isNew = nextStreak(s, now)
		return next, nil
	})
	if err != nil {
		return StreakUpdate{}, fmt.Errorf("update streak: %w", err)
	}
	out := StreakUpdate{Streak: s, IsNewDay: isNew}
	if !isNew {
		return out, nil
	}

	out.Unlocked, err = e.apply(ctx, func(a *core.Achievement) {
		if streakIDs[a.ID] {
			a.Progress = float64(s.Current)
		}
	})
	return out, err
}

func (e *Engine) Streak(ctx context.Context) core.Streak {
	return e.store.Streak.Get(ctx)
}
