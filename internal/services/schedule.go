// This file implements the Strategy Pattern for advancing recurring
// expenses. Each frequency has a scheduler that computes the occurrence
// after a given date.

package services

import (
	"fmt"
	"time"

	"masrofi/internal/core"
)

// Scheduler returns the occurrence after from. anchorDay is the template's
// day of month; zero means the day of from.
type Scheduler interface {
	Next(from time.Time, anchorDay int) time.Time
}

type DailyScheduler struct{}

func (DailyScheduler) Next(from time.Time, _ int) time.Time { return from.AddDate(0, 0, 1) }

type WeeklyScheduler struct{}

func (WeeklyScheduler) Next(from time.Time, _ int) time.Time { return from.AddDate(0, 0, 7) }

// MonthlyScheduler lands on the anchor day, clamped to the last day of a
// shorter month (Jan 31 -> Feb 28 -> Mar 31).
type MonthlyScheduler struct{}

func (MonthlyScheduler) Next(from time.Time, anchorDay int) time.Time {
	return addMonthsClamped(from, 1, anchorDay)
}

// YearlyScheduler clamps Feb 29 to Feb 28 in common years and returns to
// Feb 29 in leap years.
type YearlyScheduler struct{}

func (YearlyScheduler) Next(from time.Time, anchorDay int) time.Time {
	return addMonthsClamped(from, 12, anchorDay)
}

func addMonthsClamped(t time.Time, months, anchorDay int) time.Time {
	if anchorDay <= 0 {
		anchorDay = t.Day()
	}
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := min(anchorDay, lastDay)
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// schedulers maps frequencies to their scheduler.
var schedulers = map[core.Frequency]Scheduler{
	core.Daily:   DailyScheduler{},
	core.Weekly:  WeeklyScheduler{},
	core.Monthly: MonthlyScheduler{},
	core.Yearly:  YearlyScheduler{},
}

// SchedulerFor returns the scheduler for a recurring expense frequency.
func SchedulerFor(freq core.Frequency) (Scheduler, error) {
	s, ok := schedulers[freq]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", freq)
	}
	return s, nil
}
