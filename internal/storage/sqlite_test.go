package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"masrofi/internal/core"
)

func TestSQLiteBackendPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "masrofi.db")

	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, found, err := b.Get(ctx, KeyExpenses); err != nil || found {
		t.Fatalf("expected absent key, found=%v err=%v", found, err)
	}

	s := New(b)
	if err := s.Expenses.Add(ctx, expense("a", 12.5, "2024-06-01T10:00:00.000Z")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Settings.Set(ctx, core.Settings{Currency: "EUR", Theme: "light", Language: "en"}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen: migrations are a no-op and data survives.
	b2, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b2.Close()
	s2 := New(b2)

	all := s2.Expenses.GetAll(ctx)
	if len(all) != 1 || all[0].Amount.String() != "12.50" {
		t.Fatalf("unexpected expenses %+v", all)
	}
	if got := s2.Settings.Get(ctx).Currency; got != "EUR" {
		t.Fatalf("currency = %s", got)
	}

	keys, err := b2.Keys(ctx)
	if err != nil || len(keys) != 2 {
		t.Fatalf("keys = %v, %v", keys, err)
	}
	if err := b2.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestCachedBackend(t *testing.T) {
	ctx := context.Background()
	inner := &failingBackend{MemoryBackend: NewMemoryBackend()}
	c := NewCachedBackend(inner, 8, time.Minute)

	if err := c.Set(ctx, "k", []byte(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Served from cache even when the backend cannot read.
	inner.failGet = true
	if v, ok, err := c.Get(ctx, "k"); err != nil || !ok || string(v) != "1" {
		t.Fatalf("get = %s, %v, %v", v, ok, err)
	}

	// A failed write must not leave a stale cached value behind.
	inner.failGet = false
	inner.failSet = true
	if err := c.Set(ctx, "k", []byte(`2`)); err == nil {
		t.Fatalf("expected write error")
	}
	if v, _, _ := c.Get(ctx, "k"); string(v) != "1" {
		t.Fatalf("expected backend value 1, got %s", v)
	}
}
