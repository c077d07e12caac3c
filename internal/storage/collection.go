package storage

import (
	"context"

	"masrofi/internal/core"
)

// Collection is a JSON array of records stored under one key.
type Collection[T core.Record] struct {
	store *Store
	key   string
}

func newCollection[T core.Record](s *Store, key string) Collection[T] {
	return Collection[T]{store: s, key: key}
}

// Key returns the logical key backing the collection.
func (c Collection[T]) Key() string { return c.key }

// GetAll returns every record, newest first. Missing or unreadable data
// yields an empty slice.
func (c Collection[T]) GetAll(ctx context.Context) []T {
	items := []T{}
	if !c.store.read(ctx, c.key, &items) || items == nil {
		return []T{}
	}
	return items
}

// Filter returns the records matching pred.
func (c Collection[T]) Filter(ctx context.Context, pred func(T) bool) []T {
	out := []T{}
	for _, it := range c.GetAll(ctx) {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the record with the given id.
func (c Collection[T]) Find(ctx context.Context, id string) (T, bool) {
	for _, it := range c.GetAll(ctx) {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Add prepends item.
func (c Collection[T]) Add(ctx context.Context, item T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
}

// Update applies fn to the record with id and persists the result.
func (c Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var updated T
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].RecordID() != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, ErrNotFound
	})
	return updated, err
}

// Delete removes the record with id.
func (c Collection[T]) Delete(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		out := items[:0]
		removed := false
		for _, it := range items {
			if it.RecordID() == id {
				removed = true
				continue
			}
			out = append(out, it)
		}
		if !removed {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// ReplaceAll overwrites the whole collection.
func (c Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.Mutate(ctx, func([]T) ([]T, error) { return items, nil })
}

// Mutate runs fn over the current records under the key lock and stores what
// it returns. An error from fn leaves the collection untouched.
func (c Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	unlock, err := c.store.locks.acquire(ctx, c.key)
	if err != nil {
		return err
	}
	defer unlock()

	next, err := fn(c.GetAll(ctx))
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}
	return c.store.write(ctx, c.key, next)
}

// Value is a singleton stored under one key.
type Value[T any] struct {
	store *Store
	key   string
	def   func() T
}

func newValue[T any](s *Store, key string, def func() T) Value[T] {
	return Value[T]{store: s, key: key, def: def}
}

// Get returns the stored value. Fields absent from the stored JSON keep their
// defaults.
func (v Value[T]) Get(ctx context.Context) T {
	val := v.def()
	if !v.store.read(ctx, v.key, &val) {
		return v.def()
	}
	return val
}

func (v Value[T]) Set(ctx context.Context, val T) error {
	unlock, err := v.store.locks.acquire(ctx, v.key)
	if err != nil {
		return err
	}
	defer unlock()
	return v.store.write(ctx, v.key, val)
}

// Mutate rewrites the value under the key lock and returns what was stored.
func (v Value[T]) Mutate(ctx context.Context, fn func(T) (T, error)) (T, error) {
	unlock, err := v.store.locks.acquire(ctx, v.key)
	if err != nil {
		var zero T
		return zero, err
	}
	defer unlock()

	next, err := fn(v.Get(ctx))
	if err != nil {
		var zero T
		return zero, err
	}
	if err := v.store.write(ctx, v.key, next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}
