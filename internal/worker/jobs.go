// Package worker runs the periodic background passes: recurring expenses,
// alert checks, achievement checks and delivery of queued notifications.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"masrofi/internal/core"
	"masrofi/internal/log"
)

type (
	RecurringProcessor interface {
		ProcessDue(ctx context.Context) (int, error)
	}

	AlertChecker interface {
		CheckSpending(ctx context.Context) ([]core.Alert, error)
		CheckBills(ctx context.Context) ([]core.Alert, error)
	}

	AchievementChecker interface {
		Check(ctx context.Context) ([]core.Achievement, error)
	}
)

// Jobs runs the scheduled passes.
type Jobs struct {
	recurring    RecurringProcessor
	alerts       AlertChecker
	achievements AchievementChecker
	deliverer    *Deliverer

	mu     sync.Mutex
	cron   *cron.Cron
	logger *log.Logger
}

// NewJobs wires the passes. Any dependency may be nil to skip its pass.
func NewJobs(r RecurringProcessor, a AlertChecker, ach AchievementChecker, d *Deliverer) *Jobs {
	return &Jobs{
		recurring:    r,
		alerts:       a,
		achievements: ach,
		deliverer:    d,
		logger:       log.ForComponent(log.ComponentWorker),
	}
}

// RunOnce runs every pass in order. A failing pass does not stop the ones
// after it; the errors are joined.
func (j *Jobs) RunOnce(ctx context.Context) error {
	j.logger.InfoContext(ctx, "Processing scheduled passes")
	var errs []error

	if j.recurring != nil {
		n, err := j.recurring.ProcessDue(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("recurring: %w", err))
		} else if n > 0 {
			j.logger.InfoContext(ctx, "Recurring expenses applied", "count", n)
		}
	}

	if j.alerts != nil {
		fired, err := j.alerts.CheckSpending(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("spending alerts: %w", err))
		}
		bills, err := j.alerts.CheckBills(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("bill alerts: %w", err))
		}
		if n := len(fired) + len(bills); n > 0 {
			j.logger.InfoContext(ctx, "Alerts fired", "count", n)
		}
	}

	if j.achievements != nil {
		unlocked, err := j.achievements.Check(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("achievements: %w", err))
		} else if len(unlocked) > 0 {
			j.logger.InfoContext(ctx, "Achievements unlocked", "count", len(unlocked))
		}
	}

	if err := errors.Join(errs...); err != nil {
		j.logger.ErrorContext(ctx, "Scheduled passes failed", log.FieldError, err)
		return err
	}
	return nil
}

// Start schedules RunOnce on schedule and, when a deliverer is set, a
// once-a-minute flush of due reminders. Overlapping runs are skipped.
func (j *Jobs) Start(ctx context.Context, schedule string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return errors.New("worker already started")
	}

	cl := cronLogger{j.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(schedule, func() { _ = j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	if j.deliverer != nil {
		if _, err := c.AddFunc("@every 1m", func() { j.deliverer.FlushDue(ctx) }); err != nil {
			return fmt.Errorf("schedule reminder flush: %w", err)
		}
	}
	c.Start()
	j.cron = c
	j.logger.InfoContext(ctx, "Worker scheduled", "schedule", schedule)
	return nil
}

// Stop stops scheduling and waits for running passes to finish or ctx to end.
func (j *Jobs) Stop(ctx context.Context) {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("Worker stop timed out")
	}
}

// cronLogger adapts log.Logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{log.FieldError, err}, keysAndValues...)...)
}
