package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/svitlogrid/svitlogrid/internal/logfields"
	"github.com/svitlogrid/svitlogrid/internal/metrics"
	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/widget"
)

// HTTPServer exposes the widget-host boundary over HTTP: instance
// registration, the tap target, current views, and observability
// endpoints.
type HTTPServer struct {
	daemon *Daemon
	server *http.Server
}

// NewHTTPServer builds the server for the daemon's listen address.
func NewHTTPServer(d *Daemon) *HTTPServer {
	s := &HTTPServer{daemon: d}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/groups", s.handleGroups)
	mux.HandleFunc("GET /api/snapshot/{group}", s.handleSnapshot)
	mux.HandleFunc("GET /api/instances", s.handleListInstances)
	mux.HandleFunc("POST /api/instances", s.handleAddInstance)
	mux.HandleFunc("DELETE /api/instances/{id}", s.handleRemoveInstance)
	mux.HandleFunc("POST /api/instances/{id}/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/instances/{id}/view", s.handleView)
	if d.promRegistry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(d.promRegistry))
	}

	s.server = &http.Server{
		Addr:              d.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *HTTPServer) Start(ctx context.Context) {
	go func() {
		slog.Info("HTTP server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", logfields.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", logfields.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	armed, until := s.daemon.midnight.Armed()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"instances":    s.daemon.instances.Count(),
		"armed":        armed,
		"next_wake_at": until.Format(time.RFC3339),
	})
}

func (s *HTTPServer) handleGroups(w http.ResponseWriter, r *http.Request) {
	type groupInfo struct {
		ID    string `json:"id"`
		Index int    `json:"index"`
		Label string `json:"label"`
	}
	var out []groupInfo
	for _, g := range schedule.AllGroups() {
		out = append(out, groupInfo{ID: string(g), Index: g.Index(), Label: g.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	g, ok := schedule.ParseGroup(r.PathValue("group"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown group %q", r.PathValue("group")))
		return
	}

	snap, err := widget.BuildSnapshot(r.Context(), s.daemon.store, g, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *HTTPServer) handleListInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.instances.All())
}

func (s *HTTPServer) handleAddInstance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Group string `json:"group"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, ok := schedule.ParseGroup(req.Group)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown group %q", req.Group))
		return
	}

	inst := s.daemon.AddInstance(r.Context(), g)
	writeJSON(w, http.StatusCreated, inst)
}

func (s *HTTPServer) handleRemoveInstance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.daemon.RemoveInstance(id) {
		writeError(w, http.StatusNotFound, "unknown instance")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inst, ok := s.daemon.instances.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown instance")
		return
	}

	if err := s.daemon.refresh.RequestRefresh(r.Context(), inst.Group, inst.ID); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *HTTPServer) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, ok := s.daemon.surface.Current(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no view applied for instance")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
