package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"masrofi/internal/amqp"
	"masrofi/internal/log"
	"masrofi/internal/notify"
)

// Deliverer hands queued notifications to the outbound notifier. Reminders
// scheduled for later are held in memory until FlushDue finds them due.
type Deliverer struct {
	notifier notify.Notifier
	now      func() time.Time
	logger   *log.Logger

	mu      sync.Mutex
	pending []notify.Notification
}

func NewDeliverer(n notify.Notifier, now func() time.Time) *Deliverer {
	if now == nil {
		now = time.Now
	}
	return &Deliverer{
		notifier: n,
		now:      now,
		logger:   log.ForComponent(log.ComponentWorker),
	}
}

// HandleNotification is the AMQP consumer callback. A returned error
// requeues the message.
func (d *Deliverer) HandleNotification(ctx context.Context, msg *amqp.NotificationMessage) error {
	d.logger.InfoContext(ctx, "Processing notification message",
		"id", msg.ID,
		"kind", msg.Kind)

	n := msg.Notification
	if n.Scheduled() && n.NotifyAt.After(d.now()) {
		d.hold(n)
		d.logger.DebugContext(ctx, "Notification held until due", "id", n.ID, "notify_at", n.NotifyAt.Format(time.RFC3339))
		return nil
	}

	if err := d.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("deliver notification %s: %w", n.ID, err)
	}
	return nil
}

func (d *Deliverer) hold(n notify.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.pending {
		if p.ID == n.ID {
			d.pending[i] = n
			return
		}
	}
	d.pending = append(d.pending, n)
	sort.SliceStable(d.pending, func(i, j int) bool {
		return d.pending[i].NotifyAt.Before(*d.pending[j].NotifyAt)
	})
}

// FlushDue delivers held notifications whose time has come. Failed
// deliveries stay held for the next flush.
func (d *Deliverer) FlushDue(ctx context.Context) int {
	now := d.now()

	d.mu.Lock()
	var due []notify.Notification
	keep := d.pending[:0]
	for _, n := range d.pending {
		if n.NotifyAt.After(now) {
			keep = append(keep, n)
		} else {
			due = append(due, n)
		}
	}
	d.pending = keep
	d.mu.Unlock()

	delivered := 0
	var failed []notify.Notification
	for _, n := range due {
		if err := d.notifier.Notify(ctx, n); err != nil {
			d.logger.WarnContext(ctx, "Reminder delivery failed", "id", n.ID, log.FieldError, err)
			failed = append(failed, n)
			continue
		}
		delivered++
	}
	for _, n := range failed {
		d.hold(n)
	}
	return delivered
}

// Pending returns how many reminders are held.
func (d *Deliverer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
