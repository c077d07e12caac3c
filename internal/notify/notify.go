// Package notify delivers fired alerts and scheduled reminders. Delivery is
// best effort: callers log failures and carry on.
package notify

import (
	"context"
	"errors"
	"time"

	"masrofi/internal/log"
)

// KindDebtReminder marks scheduled debt reminders. Alerts use their alert
// type as kind.
const KindDebtReminder = "debt_reminder"

// Notification is one message for the user.
type Notification struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Severity string         `json:"severity,omitempty"`
	NotifyAt *time.Time     `json:"notifyAt,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Scheduled reports whether the notification is meant for a later time.
func (n Notification) Scheduled() bool { return n.NotifyAt != nil }

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.ForComponent(log.ComponentNotify)}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	args := []any{"id", n.ID, "kind", n.Kind, "title", n.Title, "severity", n.Severity}
	if n.NotifyAt != nil {
		args = append(args, "notify_at", n.NotifyAt.Format(time.RFC3339))
	}
	l.logger.InfoContext(ctx, n.Body, args...)
	return nil
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, nt := range m {
		if nt == nil {
			continue
		}
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
