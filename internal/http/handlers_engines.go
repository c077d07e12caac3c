package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"masrofi/internal/achievements"
	"masrofi/internal/core"
	"masrofi/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

type unwrapper interface {
	Unwrap() storage.Backend
}

// handleReady pings the storage backend when it supports it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{
		"rate_limiter": map[string]any{"active_clients": s.limiter.ActiveClients()},
		"cloud_backup": s.Cloud != nil,
	}

	backend := s.Store.Backend()
	if u, ok := backend.(unwrapper); ok {
		backend = u.Unwrap()
	}
	checks["storage"] = "ok"
	if p, ok := backend.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, r, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	f, err := s.Analysis.Forecast(r.Context(), month(r))
	respond(w, r, f, err)
}

func (s *Server) handleCategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	c, err := s.Analysis.Categories(r.Context(), month(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, c)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	c, err := s.Analysis.Comparison(r.Context(), month(r))
	respond(w, r, c, err)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.Analysis.Summary(r.Context(), month(r))
	respond(w, r, sum, err)
}

type alertList struct {
	Alerts []core.Alert `json:"alerts"`
	Unread int          `json:"unread"`
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	items := s.Alerts.List(r.Context())
	if items == nil {
		items = []core.Alert{}
	}
	writeJSON(w, r, http.StatusOK, alertList{Alerts: items, Unread: s.Alerts.UnreadCount(r.Context())})
}

// handleCheckAlerts runs both alert passes and returns what fired.
func (s *Server) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	spending, err := s.Alerts.CheckSpending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	bills, err := s.Alerts.CheckBills(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, append(spending, bills...))
}

func (s *Server) handleReadAlert(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Alerts.MarkAsRead(r.Context(), pathID(r)))
}

func (s *Server) handleReadAllAlerts(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Alerts.MarkAllAsRead(r.Context()))
}

func (s *Server) handleClearAlerts(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, s.Alerts.Clear(r.Context()))
}

type achievementList struct {
	Achievements []core.Achievement           `json:"achievements"`
	Progress     achievements.ProgressSummary `json:"progress"`
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, achievementList{
		Achievements: s.Achievements.List(r.Context()),
		Progress:     s.Achievements.Progress(r.Context()),
	})
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.Achievements.Check(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list(w, r, unlocked)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Achievements.Level(r.Context()))
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Achievements.Streak(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Backup.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="masrofi-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type restored struct {
	Restored []string `json:"restored"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readAll(w, r, maxBackupBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	keys, err := s.Backup.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, r, http.StatusOK, restored{Restored: keys})
}

func (s *Server) handleCloudStatus(w http.ResponseWriter, r *http.Request) {
	if s.Cloud == nil {
		writeError(w, r, errCloudDisabled)
		return
	}
	writeJSON(w, r, http.StatusOK, s.Cloud.Status(r.Context()))
}

func (s *Server) handleCloudBackup(w http.ResponseWriter, r *http.Request) {
	if s.Cloud == nil {
		writeError(w, r, errCloudDisabled)
		return
	}
	info, err := s.Cloud.Backup(r.Context())
	respond(w, r, info, err)
}

func (s *Server) handleCloudRestore(w http.ResponseWriter, r *http.Request) {
	if s.Cloud == nil {
		writeError(w, r, errCloudDisabled)
		return
	}
	info, err := s.Cloud.Restore(r.Context())
	respond(w, r, info, err)
}

func (s *Server) handleAIAnalyze(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.AI.Analyze(r.Context()))
}

type tipList struct {
	Tips []string `json:"tips"`
}

func (s *Server) handleAITips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, tipList{Tips: s.AI.Tips(r.Context())})
}
