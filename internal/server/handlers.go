package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
	"git.home.luguber.info/inful/remotedocs/internal/site"
	"git.home.luguber.info/inful/remotedocs/internal/version"
)

// Health states reported by GET /healthz.
const (
	HealthStarting = "starting"
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Uptime       float64   `json:"uptime"`
	Passes       int       `json:"passes"`
	LastPass     time.Time `json:"last_pass,omitempty"`
	LastRunID    string    `json:"last_run_id,omitempty"`
	Failed       []string  `json:"failed,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	Plugins      int       `json:"plugins"`
	Resolved     int       `json:"resolved"`
	Repositories int       `json:"repositories"`
}

// RefreshResponse is returned by POST /refresh.
type RefreshResponse struct {
	Status  string        `json:"status"`
	Summary *site.Summary `json:"summary"`
}

// writeJSON encodes into a buffer first so a failed encode never sends a
// partial response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		s.errAdapter.WriteErrorResponse(w, r, rderrors.InternalError("failed to encode response", err))
	}
}

func (s *Server) notReady(w http.ResponseWriter, r *http.Request) {
	s.errAdapter.WriteErrorResponse(w, r,
		rderrors.New(rderrors.CategoryRuntime, rderrors.SeverityWarning, "no site configuration generated yet"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := HealthResponse{
		Status:    HealthHealthy,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(s.startedAt).Seconds(),
		Passes:    s.passCount,
		LastPass:  s.lastPass,
	}
	switch {
	case s.passCount == 0:
		resp.Status = HealthStarting
	case s.lastErr != nil:
		resp.Status = HealthDegraded
		resp.LastError = s.lastErr.Error()
	}
	if s.summary != nil {
		resp.LastRunID = s.summary.RunID
		resp.Plugins = s.summary.Plugins
		resp.Resolved = len(s.summary.Resolved)
		resp.Repositories = len(s.summary.Resolved) + len(s.summary.Failed)
		for _, f := range s.summary.Failed {
			resp.Failed = append(resp.Failed, f.Repository+"@"+f.Branch)
		}
		if !s.summary.OK() {
			resp.Status = HealthDegraded
		}
	}
	s.mu.RUnlock()

	s.write(w, r, http.StatusOK, resp)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.Snapshot()
	if cfg == nil {
		s.notReady(w, r)
		return
	}
	data, err := site.Marshal(cfg)
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, rderrors.InternalError("failed to encode site configuration", err))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.Snapshot()
	if cfg == nil {
		s.notReady(w, r)
		return
	}
	s.write(w, r, http.StatusOK, cfg.Plugins)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Refresh(r.Context())
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, err)
		return
	}
	status := "ok"
	if !summary.OK() {
		status = "partial"
	}
	s.write(w, r, http.StatusOK, RefreshResponse{Status: status, Summary: summary})
}
