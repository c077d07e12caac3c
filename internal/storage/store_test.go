package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"masrofi/internal/core"
)

type failingBackend struct {
	*MemoryBackend
	failGet bool
	failSet bool
}

var errBoom = errors.New("boom")

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errBoom
	}
	return f.MemoryBackend.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key string, data []byte) error {
	if f.failSet {
		return errBoom
	}
	return f.MemoryBackend.Set(ctx, key, data)
}

func expense(id string, amount float64, date string) core.Expense {
	return core.Expense{ID: id, Title: "t" + id, Amount: core.NewMoney(amount), Category: "food", Date: date}
}

func TestAddPrependsAndFinds(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	if got := s.Expenses.GetAll(ctx); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Expenses.Add(ctx, expense(id, 10, "2024-06-01")); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	all := s.Expenses.GetAll(ctx)
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if e, ok := s.Expenses.Find(ctx, "b"); !ok || e.Title != "tb" {
		t.Fatalf("find b = %+v, %v", e, ok)
	}
	if _, ok := s.Expenses.Find(ctx, "zzz"); ok {
		t.Fatalf("unexpected find")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	_ = s.Expenses.Add(ctx, expense("a", 10, "2024-06-01"))

	got, err := s.Expenses.Update(ctx, "a", func(e *core.Expense) error {
		e.Title = "renamed"
		return nil
	})
	if err != nil || got.Title != "renamed" {
		t.Fatalf("update = %+v, %v", got, err)
	}
	if _, err := s.Expenses.Update(ctx, "missing", func(*core.Expense) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Expenses.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Expenses.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUpdateErrorLeavesDataUntouched(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	_ = s.Expenses.Add(ctx, expense("a", 10, "2024-06-01"))

	_, err := s.Expenses.Update(ctx, "a", func(e *core.Expense) error {
		e.Title = "changed"
		return core.ErrEmptyTitle
	})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if e, _ := s.Expenses.Find(ctx, "a"); e.Title != "ta" {
		t.Fatalf("record changed despite error: %+v", e)
	}
}

func TestMalformedDataReadsAsDefault(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.Set(ctx, KeyExpenses, []byte(`{not json`))
	_ = b.Set(ctx, KeySettings, []byte(`"oops"`))
	_ = b.Set(ctx, KeyStreak, []byte(`{"current":`))
	s := New(b)

	if got := s.Expenses.GetAll(ctx); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	if got := s.Settings.Get(ctx); got != core.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", got)
	}
	if got := s.Streak.Get(ctx); got != (core.Streak{}) {
		t.Fatalf("expected zero streak, got %+v", got)
	}

	// A write after a malformed read starts from empty.
	if err := s.Expenses.Add(ctx, expense("a", 1, "2024-06-01")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.Expenses.GetAll(ctx); len(got) != 1 {
		t.Fatalf("expected 1, got %d", len(got))
	}
}

func TestNullReadsAsDefault(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	for _, key := range []string{KeyAlertTimestamps, KeyExpenses, KeySettings} {
		_ = b.Set(ctx, key, []byte(" null\n"))
	}
	s := New(b)

	sent := s.AlertTimestamps.Get(ctx)
	if sent == nil {
		t.Fatal("null timestamps decoded to a nil map")
	}
	sent["k"] = "v"
	if got := s.Expenses.GetAll(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := s.Settings.Get(ctx); got != core.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", got)
	}

	m, err := s.AlertTimestamps.Mutate(ctx, func(m map[string]string) (map[string]string, error) {
		m["budget_warning_b1"] = "2026-03-15T12:00:00.000Z"
		return m, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 {
		t.Fatalf("mutate = %v", m)
	}
}

func TestPartialSettingsKeepDefaults(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.Set(ctx, KeySettings, []byte(`{"currency":"USD"}`))
	s := New(b)

	got := s.Settings.Get(ctx)
	if got.Currency != "USD" || got.Language != "ar" || !got.NotificationsEnabled {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestReadFailureIsDefaultWriteFailureIsError(t *testing.T) {
	ctx := context.Background()
	fb := &failingBackend{MemoryBackend: NewMemoryBackend(), failGet: true}
	s := New(fb)

	if got := s.Points.Get(ctx); got != 0 {
		t.Fatalf("expected 0 points, got %d", got)
	}

	fb.failGet = false
	fb.failSet = true
	err := s.Expenses.Add(ctx, expense("a", 1, "2024-06-01"))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Expenses.Add(ctx, expense(fmt.Sprint(i), 1, "2024-06-01")); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.Expenses.GetAll(ctx)); got != n {
		t.Fatalf("expected %d expenses, got %d", n, got)
	}
}

func TestValueMutate(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Points.Mutate(ctx, func(p int) (int, error) { return p + 5, nil })
		}()
	}
	wg.Wait()

	if got := s.Points.Get(ctx); got != 100 {
		t.Fatalf("points = %d, want 100", got)
	}
}

func TestCanceledContextDoesNotWrite(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx, cancel := context.WithCancel(context.Background())

	unlock, err := s.locks.acquire(context.Background(), KeyExpenses)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	cancel()
	if err := s.Expenses.Add(ctx, expense("a", 1, "2024-06-01")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRawRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	if _, ok := s.Raw(ctx, KeyBudgets); ok {
		t.Fatalf("expected absent")
	}
	if err := s.SetRaw(ctx, KeyBudgets, []byte(`[{"id":"b1","category":"food","amount":100,"month":"2024-06","spent":0}]`)); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	budgets := s.Budgets.GetAll(ctx)
	if len(budgets) != 1 || budgets[0].Amount.String() != "100.00" {
		t.Fatalf("unexpected budgets %+v", budgets)
	}
}
