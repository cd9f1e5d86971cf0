// Package server exposes the update workflow as a JSON HTTP service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/sysinfo"
	"github.com/wingettools/wingetupdatesinstaller/internal/updates"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests
const ShutdownTimeout = 10 * time.Second

// Server serves the JSON API over HTTP.
type Server struct {
	checker    *updates.Checker
	addr       string
	silent     bool
	httpServer *http.Server
}

// Option is a functional option for configuring Server
type Option func(*Server)

// WithSilent makes installations triggered via the API non-interactive
// by default
func WithSilent(silent bool) Option {
	return func(s *Server) {
		s.silent = silent
	}
}

// New creates a server for the given checker listening on addr.
func New(checker *updates.Checker, addr string, opts ...Option) *Server {
	s := &Server{
		checker: checker,
		addr:    addr,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: winget.DefaultTimeout,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/packages", s.handlePackages)
	mux.HandleFunc("GET /api/updates", s.handleUpdates)
	mux.HandleFunc("POST /api/updates/install", s.handleInstall)
	mux.HandleFunc("GET /api/pending", s.handlePending)
	mux.HandleFunc("GET /api/sysinfo", s.handleSysinfo)
	return logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	logger.Info("listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests logs each request through the common logger
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// healthResponse is the body for /healthz
type healthResponse struct {
	Status string `json:"status"`
	Winget string `json:"winget,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := s.checker.Runner().Probe()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "winget unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Winget: version})
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	packages, err := s.checker.Runner().List()
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(packages),
		"packages": packages,
	})
}

// updatesResponse is the body for /api/updates
type updatesResponse struct {
	Report    *winget.UpgradeReport `json:"report"`
	Total     int                   `json:"total"`
	FromCache bool                  `json:"from_cache"`
	Excluded  int                   `json:"excluded"`
	HeldBack  int                   `json:"held_back"`
}

func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "1"

	result, err := s.checker.Check(force)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, updatesResponse{
		Report:    result.Report,
		Total:     result.Report.Total(),
		FromCache: result.FromCache,
		Excluded:  result.Excluded,
		HeldBack:  result.HeldBack,
	})
}

// installRequest is the body for /api/updates/install
type installRequest struct {
	// IDs selects specific updates; empty installs everything available
	IDs []string `json:"ids"`
	// Silent overrides the server default when set
	Silent *bool `json:"silent,omitempty"`
	// DryRun returns the winget invocation without executing it
	DryRun bool `json:"dry_run,omitempty"`
}

// installResponse is the body for a completed install
type installResponse struct {
	Installed []string `json:"installed,omitempty"`
	Output    string   `json:"output,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty"`
	Command   string   `json:"command,omitempty"`
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	var req installRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.checker.Check(false)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	targets, err := updates.SelectTargets(result.Report, req.IDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	silent := s.silent
	if req.Silent != nil {
		silent = *req.Silent
	}

	installResult, err := s.checker.Install(targets, silent, req.DryRun)
	if err != nil {
		if errors.Is(err, updates.ErrNoTargets) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	resp := installResponse{
		Output:  installResult.Output,
		DryRun:  installResult.DryRun,
		Command: installResult.Command,
	}
	if !installResult.DryRun {
		for _, t := range installResult.Targets {
			resp.Installed = append(resp.Installed, t.ID)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	pending := s.checker.Pending().List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(pending),
		"updates": pending,
	})
}

func (s *Server) handleSysinfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sysinfo.Collect())
}
