package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reprice-tool/pkg/obs"
	"reprice-tool/pkg/reprice"
)

type server struct {
	manager *reprice.Manager
	history reprice.RunStore
	metrics *obs.Metrics
}

func newServer(manager *reprice.Manager, history reprice.RunStore, metrics *obs.Metrics) *server {
	return &server{manager: manager, history: history, metrics: metrics}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Post("/reprice", s.handleReprice)
	r.Get("/runs", s.handleRuns)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := strconv.Itoa(ww.Status())
		s.metrics.ObserveHTTPRequestDuration(r.Method, r.URL.Path, status, time.Since(start).Seconds())
		s.metrics.IncHTTPRequestsTotal(r.Method, r.URL.Path, status)
	})
}

func (s *server) handleReprice(w http.ResponseWriter, r *http.Request) {
	var order reprice.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if order.FlightRef == "" {
		writeError(w, http.StatusBadRequest, "flight_ref is required")
		return
	}

	res, err := s.manager.Reprice(r.Context(), &order)
	if err != nil {
		switch {
		case reprice.IsTicketInvalid(err), reprice.IsNoRuleMatched(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is not enabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.history.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []reprice.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
