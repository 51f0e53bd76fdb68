// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package visualize

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/plan"
)

// Server is the optional `bwsched serve` viewer: a read-only HTTP view
// over an ExecutionPlan that is mutated in place while a run is in
// progress and replaced wholesale once it finishes. Grounded on the
// teacher's mux-routed mock REST server (tests/mocks/server.go), repointed
// from a fake SLURM API to a real, local scheduler plan.
type Server struct {
	router *mux.Router
	hub    *Hub

	mu   sync.RWMutex
	plan *plan.ExecutionPlan
}

// NewServer builds a Server over an initial plan (which may be empty,
// updated later via SetPlan as a run progresses).
func NewServer(initial *plan.ExecutionPlan) *Server {
	if initial == nil {
		initial = plan.New(0)
	}
	s := &Server{
		plan: initial,
		hub:  NewHub(),
	}
	s.setupRouter()
	go s.hub.Run()
	return s
}

func (s *Server) setupRouter() {
	s.router = mux.NewRouter().StrictSlash(true)
	s.router.HandleFunc("/plan", s.handlePlan).Methods(http.MethodGet)
	s.router.HandleFunc("/grid", s.handleGrid).Methods(http.MethodGet)
	s.router.HandleFunc("/jobs/{id}", s.handleJob).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.hub.HandleWebSocket).Methods(http.MethodGet)
}

// Handler returns the http.Handler to mount, e.g. with http.ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetPlan replaces the viewed plan and broadcasts a delta to connected
// websocket clients (spec.md §3.3: tick-by-tick grid deltas).
func (s *Server) SetPlan(p *plan.ExecutionPlan) {
	s.mu.Lock()
	s.plan = p
	s.mu.Unlock()
	s.hub.Broadcast(GridDelta{
		CompletedCount: len(p.Completed),
		DroppedCount:   len(p.Dropped),
	})
}

func (s *Server) currentPlan() *plan.ExecutionPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p := s.currentPlan()
	writeJSON(w, http.StatusOK, map[string]any{
		"capacity": p.Capacity,
		"completed": len(p.Completed),
		"dropped":   len(p.Dropped),
		"max_end_time": p.MaxEndTime(),
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	p := s.currentPlan()
	grid, err := p.Grid()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grid": grid})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, bwerrors.NewMalformedWorkload("job id must be an integer", err))
		return
	}

	p := s.currentPlan()
	if j := findJob(p.Completed, id); j != nil {
		writeJSON(w, http.StatusOK, jobView(j))
		return
	}
	if j := findJob(p.Dropped, id); j != nil {
		writeJSON(w, http.StatusOK, jobView(j))
		return
	}
	writeError(w, http.StatusNotFound, bwerrors.NewMalformedWorkload("no such job in this plan", nil))
}

func findJob(jobs []*job.Job, id int) *job.Job {
	for _, j := range jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func jobView(j *job.Job) map[string]any {
	return map[string]any{
		"id":                j.ID,
		"status":            j.Status.String(),
		"priority":          j.Priority.String(),
		"actual_start_time": j.ActualStartTime,
		"actual_end_time":   j.ActualEndTime,
		"score":             j.Score,
		"is_shrunk":         j.IsShrunk(),
		"preemptions":       len(j.PreemptionLog),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
}
