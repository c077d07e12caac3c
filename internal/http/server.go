// Package http exposes the finance core as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"masrofi/internal/achievements"
	"masrofi/internal/ai"
	"masrofi/internal/alerts"
	"masrofi/internal/analysis"
	"masrofi/internal/backup"
	"masrofi/internal/backup/gdrive"
	"masrofi/internal/log"
	"masrofi/internal/middleware/ratelimit"
	"masrofi/internal/middleware/security"
	"masrofi/internal/middleware/trace"
	"masrofi/internal/services"
	"masrofi/internal/storage"
)

// Deps are the components the API serves. Cloud may be nil when Drive
// backup is not configured.
type Deps struct {
	Store        *storage.Store
	Services     *services.Services
	Analysis     *analysis.Service
	Alerts       *alerts.Engine
	Achievements *achievements.Engine
	Backup       *backup.Service
	Cloud        *gdrive.Client
	AI           *ai.Client
}

// Config tunes the server.
type Config struct {
	Addr              string
	RequestsPerMinute int
	TrustedProxies    []string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

// Server is an http.Server wired to the API routes.
type Server struct {
	http.Server
	Deps

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	logger       *log.Logger
	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	logger := log.ForComponent(log.ComponentHTTP)
	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}

	s := &Server{
		Deps:     deps,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(detector.ClientIP, logger),
		logger:   logger,
		started:  time.Now(),
	}
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	r.Use(
		log.Middleware(s.logger),
		s.tracer.Middleware,
		log.RequestIDMiddleware(trace.RequestID),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		s.detector.Middleware,
	)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
	}))

	api.HandleFunc("/expenses", s.handleListExpenses).Methods(http.MethodGet)
	api.HandleFunc("/expenses", s.handleCreateExpense).Methods(http.MethodPost)
	api.HandleFunc("/expenses/{id}", s.handleUpdateExpense).Methods(http.MethodPut)
	api.HandleFunc("/expenses/{id}", s.handleDeleteExpense).Methods(http.MethodDelete)

	api.HandleFunc("/income", s.handleListIncome).Methods(http.MethodGet)
	api.HandleFunc("/income", s.handleCreateIncome).Methods(http.MethodPost)
	api.HandleFunc("/income/{id}", s.handleDeleteIncome).Methods(http.MethodDelete)

	api.HandleFunc("/debts", s.handleListDebts).Methods(http.MethodGet)
	api.HandleFunc("/debts", s.handleCreateDebt).Methods(http.MethodPost)
	api.HandleFunc("/debts/{id}/pay", s.handlePayDebt).Methods(http.MethodPost)
	api.HandleFunc("/debts/{id}", s.handleDeleteDebt).Methods(http.MethodDelete)

	api.HandleFunc("/budgets", s.handleListBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budgets", s.handleCreateBudget).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}", s.handleDeleteBudget).Methods(http.MethodDelete)

	api.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/contribute", s.handleContributeGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}", s.handleDeleteGoal).Methods(http.MethodDelete)

	api.HandleFunc("/recurring", s.handleListRecurring).Methods(http.MethodGet)
	api.HandleFunc("/recurring", s.handleCreateRecurring).Methods(http.MethodPost)
	api.HandleFunc("/recurring/{id}", s.handleDeleteRecurring).Methods(http.MethodDelete)

	api.HandleFunc("/bills", s.handleListBills).Methods(http.MethodGet)
	api.HandleFunc("/bills", s.handleCreateBill).Methods(http.MethodPost)
	api.HandleFunc("/bills/{id}/pay", s.handlePayBill).Methods(http.MethodPost)
	api.HandleFunc("/bills/{id}", s.handleDeleteBill).Methods(http.MethodDelete)

	api.HandleFunc("/wallets", s.handleListWallets).Methods(http.MethodGet)
	api.HandleFunc("/wallets", s.handleCreateWallet).Methods(http.MethodPost)
	api.HandleFunc("/wallets/{id}", s.handleDeleteWallet).Methods(http.MethodDelete)

	api.HandleFunc("/shopping/lists", s.handleListShoppingLists).Methods(http.MethodGet)
	api.HandleFunc("/shopping/lists", s.handleCreateShoppingList).Methods(http.MethodPost)
	api.HandleFunc("/shopping/lists/{id}", s.handleDeleteShoppingList).Methods(http.MethodDelete)
	api.HandleFunc("/shopping/lists/{id}/items", s.handleListShoppingItems).Methods(http.MethodGet)
	api.HandleFunc("/shopping/lists/{id}/items", s.handleAddShoppingItem).Methods(http.MethodPost)
	api.HandleFunc("/shopping/items/{id}/toggle", s.handleToggleShoppingItem).Methods(http.MethodPost)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)

	api.HandleFunc("/analysis/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/analysis/categories", s.handleCategoryAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analysis/comparison", s.handleComparison).Methods(http.MethodGet)
	api.HandleFunc("/analysis/summary", s.handleSummary).Methods(http.MethodGet)

	api.HandleFunc("/alerts", s.handleListAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.handleClearAlerts).Methods(http.MethodDelete)
	api.HandleFunc("/alerts/check", s.handleCheckAlerts).Methods(http.MethodPost)
	api.HandleFunc("/alerts/read-all", s.handleReadAllAlerts).Methods(http.MethodPost)
	api.HandleFunc("/alerts/{id}/read", s.handleReadAlert).Methods(http.MethodPost)

	api.HandleFunc("/achievements", s.handleListAchievements).Methods(http.MethodGet)
	api.HandleFunc("/achievements/check", s.handleCheckAchievements).Methods(http.MethodPost)
	api.HandleFunc("/level", s.handleLevel).Methods(http.MethodGet)
	api.HandleFunc("/streak", s.handleStreak).Methods(http.MethodGet)

	api.HandleFunc("/backup", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/backup", s.handleImport).Methods(http.MethodPost)
	api.HandleFunc("/backup/cloud", s.handleCloudStatus).Methods(http.MethodGet)
	api.HandleFunc("/backup/cloud", s.handleCloudBackup).Methods(http.MethodPost)
	api.HandleFunc("/backup/cloud/restore", s.handleCloudRestore).Methods(http.MethodPost)

	api.HandleFunc("/ai/analyze", s.handleAIAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/ai/tips", s.handleAITips).Methods(http.MethodGet)

	return r
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
