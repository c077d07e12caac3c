package services

import (
	"context"

	"masrofi/internal/achievements"
	"masrofi/internal/alerts"
	"masrofi/internal/log"
)

// Tracker runs the engines after key events: streak, achievements, then the
// spending alert pass. Every step is best effort.
type Tracker struct {
	achievements *achievements.Engine
	alerts       *alerts.Engine
	logger       *log.Logger
}

func NewTracker(ach *achievements.Engine, al *alerts.Engine) *Tracker {
	return &Tracker{
		achievements: ach,
		alerts:       al,
		logger:       log.ForComponent(log.ComponentServices),
	}
}

func (t *Tracker) RecordActivity(ctx context.Context, event string) {
	if t.achievements != nil {
		if _, err := t.achievements.UpdateStreak(ctx); err != nil {
			t.logger.WarnContext(ctx, "Failed to update streak", "event", event, log.FieldError, err)
		}
		if _, err := t.achievements.Check(ctx); err != nil {
			t.logger.WarnContext(ctx, "Failed to check achievements", "event", event, log.FieldError, err)
		}
	}
	if t.alerts != nil {
		if _, err := t.alerts.CheckSpending(ctx); err != nil {
			t.logger.WarnContext(ctx, "Failed to check spending alerts", "event", event, log.FieldError, err)
		}
	}
}
