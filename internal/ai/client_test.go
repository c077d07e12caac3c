package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/storage"
)

type usageCounter struct{ n int }

func (u *usageCounter) RecordAIUse(context.Context) ([]core.Achievement, error) {
	u.n++
	return nil, nil
}

func seededStore(t *testing.T, expenses int) *storage.Store {
	t.Helper()
	ctx := context.Background()
	store := storage.New(storage.NewMemoryBackend())
	items := make([]core.Expense, expenses)
	for i := range items {
		items[i] = core.Expense{ID: fmt.Sprintf("e%d", i), Title: "x", Amount: core.NewMoney(10), Category: "food", Date: "2026-03-01"}
	}
	if err := store.Expenses.ReplaceAll(ctx, items); err != nil {
		t.Fatal(err)
	}
	if err := store.Income.Add(ctx, core.Income{ID: "i1", Title: "salary", Amount: core.NewMoney(2000), Date: "2026-03-01"}); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestAnalyzeRemote(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != analyzePath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"analysis":"ok","insights":["a"],"recommendations":["b"],"forecast":{"monthly_balance":1500.5,"savings_rate":12.5}}`)
	}))
	defer srv.Close()

	usage := &usageCounter{}
	c := NewClient(srv.URL, time.Second, seededStore(t, 120), usage)
	out := c.Analyze(context.Background())

	if out.Local || out.Analysis != "ok" {
		t.Fatalf("Analyze() = %+v", out)
	}
	if out.Forecast == nil || out.Forecast.MonthlyBalance.String() != "1500.50" || *out.Forecast.SavingsRate != 12.5 {
		t.Errorf("forecast = %+v", out.Forecast)
	}
	if got.AnalysisType != "full" || len(got.FinancialData.Expenses) != maxExpenses || got.FinancialData.Currency != "TRY" {
		t.Errorf("request = type %q, %d expenses, currency %q", got.AnalysisType, len(got.FinancialData.Expenses), got.FinancialData.Currency)
	}
	if usage.n != 1 {
		t.Errorf("AI use recorded %d times", usage.n)
	}
}

func TestAnalyzeFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"analysis":`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			usage := &usageCounter{}
			out := NewClient(srv.URL, time.Second, seededStore(t, 3), usage).Analyze(context.Background())
			if !out.Local {
				t.Fatal("expected local fallback")
			}
			if usage.n != 0 {
				t.Error("failed call counted as AI use")
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		out := NewClient(url, time.Second, seededStore(t, 1), nil).Analyze(context.Background())
		if !out.Local {
			t.Fatal("expected local fallback")
		}
	})
}

func TestTips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tipsPath {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"tips":["one","two"]}`)
	}))
	defer srv.Close()

	store := seededStore(t, 1)
	if got := NewClient(srv.URL, time.Second, store, nil).Tips(context.Background()); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Tips() = %v", got)
	}
	if got := NewClient("", time.Second, store, nil).Tips(context.Background()); !reflect.DeepEqual(got, FallbackTips) {
		t.Errorf("fallback tips = %v", got)
	}
}

func TestLocalAnalysis(t *testing.T) {
	data := FinancialData{
		Expenses: []core.Expense{
			{Amount: core.NewMoney(300), Category: "food"},
			{Amount: core.NewMoney(200), Category: "transport"},
		},
		Incomes:      []core.Income{{Amount: core.NewMoney(1000)}},
		Debts:        []core.Debt{{Type: core.OwedByUs, TotalAmount: core.NewMoney(400), Status: core.DebtActive}, {Type: core.OwedByUs, TotalAmount: core.NewMoney(999), Status: core.DebtPaid}},
		SavingsGoals: []core.SavingsGoal{{CurrentAmount: core.NewMoney(150)}},
		Currency:     "USD",
	}
	out := LocalAnalysis(data)

	if !out.Local || out.Forecast == nil {
		t.Fatalf("LocalAnalysis() = %+v", out)
	}
	if !out.Forecast.MonthlyBalance.Equal(core.NewMoney(500)) {
		t.Errorf("balance = %s", out.Forecast.MonthlyBalance)
	}
	if *out.Forecast.SavingsRate != 15 || *out.Forecast.DebtRatio != 40 {
		t.Errorf("rates = %v / %v", *out.Forecast.SavingsRate, *out.Forecast.DebtRatio)
	}
	if len(out.Alerts) != 1 {
		t.Errorf("alerts = %v", out.Alerts)
	}
	if _, ok := out.SpendingPatterns["food"]; !ok {
		t.Errorf("patterns = %v", out.SpendingPatterns)
	}

	empty := LocalAnalysis(FinancialData{})
	if *empty.Forecast.SavingsRate != 0 || *empty.Forecast.DebtRatio != 0 {
		t.Error("zero income must not produce NaN ratios")
	}
}
