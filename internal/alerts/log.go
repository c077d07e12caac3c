package alerts

import (
	"context"

	"masrofi/internal/core"
)

// List returns the alert log, newest first.
func (e *Engine) List(ctx context.Context) []core.Alert {
	return e.store.Alerts.GetAll(ctx)
}

func (e *Engine) UnreadCount(ctx context.Context) int {
	return len(e.store.Alerts.Filter(ctx, func(a core.Alert) bool { return !a.Read }))
}

// MarkAsRead returns storage.ErrNotFound for unknown ids.
func (e *Engine) MarkAsRead(ctx context.Context, id string) error {
	_, err := e.store.Alerts.Update(ctx, id, func(a *core.Alert) error {
		a.Read = true
		return nil
	})
	return err
}

func (e *Engine) MarkAllAsRead(ctx context.Context) error {
	return e.store.Alerts.Mutate(ctx, func(items []core.Alert) ([]core.Alert, error) {
		for i := range items {
			items[i].Read = true
		}
		return items, nil
	})
}

// Clear empties the log. Rate-limit timestamps are kept.
func (e *Engine) Clear(ctx context.Context) error {
	return e.store.Alerts.ReplaceAll(ctx, nil)
}
