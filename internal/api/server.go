// Package api exposes the optimization engine over HTTP: building
// registration, record ingestion, optimization jobs and reports.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"energy_optimizer/internal/estimator"
	"energy_optimizer/internal/model"
	"energy_optimizer/internal/optimizer"
	"energy_optimizer/internal/store"
	"energy_optimizer/internal/ws"
)

// Server holds the shared state behind the HTTP handlers. One
// optimization per (building, algorithm) runs at a time; concurrent
// requests for the same pair get 409.
type Server struct {
	store  *store.Store
	models *optimizer.Registry
	hub    *ws.Hub
	opts   optimizer.Options

	mu       sync.Mutex
	inflight map[jobKey]bool
	reports  map[jobKey]*optimizer.Result
}

type jobKey struct {
	buildingID string
	algorithm  estimator.Algorithm
}

func NewServer(st *store.Store, models *optimizer.Registry, hub *ws.Hub) *Server {
	return &Server{
		store:    st,
		models:   models,
		hub:      hub,
		opts:     optimizer.DefaultOptions(),
		inflight: make(map[jobKey]bool),
		reports:  make(map[jobKey]*optimizer.Result),
	}
}

// Router wires all routes. The WebSocket endpoint and metrics come
// along so one handler serves the whole surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/buildings", s.handleCreateBuilding).Methods(http.MethodPost)
	r.HandleFunc("/buildings", s.handleListBuildings).Methods(http.MethodGet)
	r.HandleFunc("/buildings/{id}/records", s.handleAddRecords).Methods(http.MethodPost)
	r.HandleFunc("/buildings/{id}/optimize", s.handleOptimize).Methods(http.MethodPost)
	r.HandleFunc("/buildings/{id}/report", s.handleReport).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Handle("/ws", ws.NewHandler(s.hub))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createBuildingRequest struct {
	BuildingID string               `json:"building_id,omitempty"`
	Config     model.BuildingConfig `json:"config"`
}

type createBuildingResponse struct {
	BuildingID string               `json:"building_id"`
	Config     model.BuildingConfig `json:"config"`
}

func (s *Server) handleCreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req createBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.BuildingID == "" {
		req.BuildingID = uuid.NewString()
	}

	if err := s.store.AddBuilding(req.BuildingID, req.Config); err != nil {
		writeDomainError(w, err)
		return
	}
	buildingsRegistered.Set(float64(len(s.store.BuildingIDs())))

	s.hub.Publish(ws.TypeBuildingCreated, ws.BuildingCreatedPayload{
		BuildingID:   req.BuildingID,
		BuildingType: string(req.Config.BuildingType),
	})
	writeJSON(w, http.StatusCreated, createBuildingResponse{
		BuildingID: req.BuildingID,
		Config:     req.Config,
	})
}

func (s *Server) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"buildings": s.store.BuildingIDs()})
}

func (s *Server) handleAddRecords(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.Building(id); !ok {
		writeError(w, http.StatusNotFound, "unknown building "+id)
		return
	}

	var records []model.EnergyRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.store.AddRecords(id, records); err != nil {
		writeDomainError(w, err)
		return
	}
	recordsIngestedTotal.Add(float64(len(records)))

	s.hub.Publish(ws.TypeRecordsAdded, ws.RecordsAddedPayload{
		BuildingID: id,
		Count:      len(records),
	})
	writeJSON(w, http.StatusOK, map[string]int{"added": len(records)})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cfg, ok := s.store.Building(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown building "+id)
		return
	}

	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		algorithm = string(estimator.RandomForest)
	}
	alg, err := estimator.ParseAlgorithm(algorithm)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	key := jobKey{buildingID: id, algorithm: alg}
	if !s.acquire(key) {
		writeError(w, http.StatusConflict, "optimization already running for this building and algorithm")
		return
	}
	defer s.release(key)

	jobID := uuid.NewString()
	s.hub.Publish(ws.TypeJobAccepted, ws.JobAcceptedPayload{
		JobID:      jobID,
		BuildingID: id,
		Algorithm:  algorithm,
		AcceptedAt: time.Now().UTC().Format(time.RFC3339),
	})

	started := time.Now()
	result, err := optimizer.Run(r.Context(), s.store.Records(id), cfg, algorithm, s.opts)
	if err != nil {
		optimizeJobsTotal.WithLabelValues(algorithm, "error").Inc()
		s.hub.Publish(ws.TypeJobFailed, ws.JobFailedPayload{
			JobID:      jobID,
			BuildingID: id,
			Algorithm:  algorithm,
			Error:      err.Error(),
		})
		log.Printf("optimize %s/%s failed: %v", id, algorithm, err)
		writeDomainError(w, err)
		return
	}
	optimizeJobsTotal.WithLabelValues(algorithm, "ok").Inc()
	optimizeDuration.WithLabelValues(algorithm).Observe(time.Since(started).Seconds())

	s.models.Put(id, result.Model)
	s.mu.Lock()
	s.reports[key] = result
	s.mu.Unlock()

	s.hub.Publish(ws.TypeJobCompleted, ws.JobCompletedPayload{
		JobID:           jobID,
		BuildingID:      id,
		Algorithm:       algorithm,
		RSquared:        result.Metrics.RSquared,
		SuggestionCount: len(result.Suggestions),
		SavingsPercent:  result.Report.Summary.PotentialSavingsPercent,
		CompletedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.Building(id); !ok {
		writeError(w, http.StatusNotFound, "unknown building "+id)
		return
	}

	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		algorithm = string(estimator.RandomForest)
	}
	alg, err := estimator.ParseAlgorithm(algorithm)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.mu.Lock()
	result, ok := s.reports[jobKey{buildingID: id, algorithm: alg}]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no report yet, run an optimization first")
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

func (s *Server) acquire(key jobKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *Server) release(key jobKey) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the engine's error taxonomy onto HTTP status
// codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		verr *model.ValidationError
		uerr *model.UnsupportedAlgorithmError
		ierr *model.InsufficientDataError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &uerr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ierr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
