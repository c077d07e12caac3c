// Package ai calls the remote financial analysis service. Every failure falls
// back to a deterministic local answer, so callers never see an error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

const (
	analyzePath = "/api/ai/analyze"
	tipsPath    = "/api/ai/tips"

	// maxExpenses is how many of the most recent expenses are sent.
	maxExpenses = 100
)

// FallbackTips are returned whenever the tips endpoint cannot answer.
var FallbackTips = []string{
	"Track your expenses daily to control your budget",
	"Set a monthly budget for each category",
	"Save 20% of your income for emergencies",
}

type FinancialData struct {
	Expenses          []core.Expense          `json:"expenses"`
	Incomes           []core.Income           `json:"incomes"`
	Debts             []core.Debt             `json:"debts"`
	Budgets           []core.Budget           `json:"budgets"`
	SavingsGoals      []core.SavingsGoal      `json:"savings_goals"`
	RecurringExpenses []core.RecurringExpense `json:"recurring_expenses"`
	Currency          string                  `json:"currency"`
}

type Request struct {
	FinancialData FinancialData `json:"financial_data"`
	AnalysisType  string        `json:"analysis_type,omitempty"`
}

type Forecast struct {
	MonthlyBalance core.Money `json:"monthly_balance"`
	SavingsRate    *float64   `json:"savings_rate,omitempty"`
	DebtRatio      *float64   `json:"debt_ratio,omitempty"`
}

type Analysis struct {
	Analysis         string         `json:"analysis"`
	Insights         []string       `json:"insights"`
	Recommendations  []string       `json:"recommendations"`
	Alerts           []string       `json:"alerts,omitempty"`
	SpendingPatterns map[string]any `json:"spending_patterns,omitempty"`
	Forecast         *Forecast      `json:"forecast,omitempty"`
	// Local marks a fallback computed without the remote service.
	Local bool `json:"local"`
}

type tipsResponse struct {
	Tips []string `json:"tips"`
}

// UsageRecorder counts successful remote analyses.
type UsageRecorder interface {
	RecordAIUse(ctx context.Context) ([]core.Achievement, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	store   *storage.Store
	usage   UsageRecorder
	logger  *log.Logger
}

// NewClient returns a client for baseURL. An empty baseURL keeps every answer
// local.
func NewClient(baseURL string, timeout time.Duration, store *storage.Store, usage UsageRecorder) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		usage:   usage,
		logger:  log.ForComponent(log.ComponentAI),
	}
}

// Collect gathers the request payload from the store.
func (c *Client) Collect(ctx context.Context) FinancialData {
	expenses := c.store.Expenses.GetAll(ctx)
	if len(expenses) > maxExpenses {
		expenses = expenses[:maxExpenses]
	}
	return FinancialData{
		Expenses:          expenses,
		Incomes:           c.store.Income.GetAll(ctx),
		Debts:             c.store.Debts.GetAll(ctx),
		Budgets:           c.store.Budgets.GetAll(ctx),
		SavingsGoals:      c.store.SavingsGoals.GetAll(ctx),
		RecurringExpenses: c.store.RecurringExpenses.GetAll(ctx),
		Currency:          c.store.Settings.Get(ctx).Currency,
	}
}

// Analyze asks the remote service for a full analysis. A successful answer
// counts towards the ai_user achievement; failures return LocalAnalysis.
func (c *Client) Analyze(ctx context.Context) Analysis {
	data := c.Collect(ctx)
	if c.baseURL == "" {
		return LocalAnalysis(data)
	}

	var out Analysis
	err := c.post(ctx, analyzePath, Request{FinancialData: data, AnalysisType: "full"}, &out)
	if err != nil {
		c.logger.WarnContext(ctx, "AI analysis failed, using local fallback", log.FieldError, err)
		return LocalAnalysis(data)
	}
	out.Local = false

	if c.usage != nil {
		if _, err := c.usage.RecordAIUse(ctx); err != nil {
			c.logger.WarnContext(ctx, "Failed to record AI use", log.FieldError, err)
		}
	}
	return out
}

// Tips returns quick tips from the remote service or FallbackTips.
func (c *Client) Tips(ctx context.Context) []string {
	if c.baseURL == "" {
		return fallbackTips()
	}
	var out tipsResponse
	if err := c.post(ctx, tipsPath, Request{FinancialData: c.Collect(ctx)}, &out); err != nil {
		c.logger.WarnContext(ctx, "AI tips failed, using fallback", log.FieldError, err)
		return fallbackTips()
	}
	if out.Tips == nil {
		return []string{}
	}
	return out.Tips
}

func fallbackTips() []string { return append([]string(nil), FallbackTips...) }

// post sends one request; there are no retries.
func (c *Client) post(ctx context.Context, path string, body any, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("call %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	c.logger.DebugContext(ctx, "AI call completed", "path", path, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
