package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/claude/amped/internal/ingest"
	"github.com/claude/amped/internal/manual"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleFetchAll(w http.ResponseWriter, r *http.Request) {
	period := health.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = health.PeriodDay
	}
	if !period.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "period must be day, month, or year"})
		return
	}

	metrics, err := s.orch.FetchAllMetrics(r.Context(), period)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"metrics": metrics,
	})
}

func (s *Server) handleFetchLatest(w http.ResponseWriter, r *http.Request) {
	t := health.MetricType(r.URL.Query().Get("type"))
	if t == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type parameter required"})
		return
	}
	if !health.Known(t) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown metric type"})
		return
	}

	m, err := s.orch.FetchLatest(r.Context(), t)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data for metric"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	type catalogEntry struct {
		health.MetricDef
		Method string `json:"method"`
	}
	defs := health.Catalog()
	out := make([]catalogEntry, 0, len(defs))
	for _, def := range defs {
		out = append(out, catalogEntry{MetricDef: def, Method: def.Method.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload ingest.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.ing.Ingest(r.Context(), &payload)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// questionnaireRequest carries one or more standing answers.
type questionnaireRequest struct {
	Answers []struct {
		Type  health.MetricType `json:"type"`
		Value float64           `json:"value"`
	} `json:"answers"`
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	var req questionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "answers required"})
		return
	}

	now := time.Now()
	saved := 0
	// Earlier answers in the batch may already be durably written when a
	// later one fails, so the cache must drop on every exit once saved > 0.
	defer func() {
		if saved > 0 {
			s.cache.Invalidate()
		}
	}()
	for _, a := range req.Answers {
		if !health.Known(a.Type) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown metric type: " + string(a.Type)})
			return
		}
		if err := s.manual.SaveAnswer(r.Context(), a.Type, a.Value, now); err != nil {
			if errors.Is(err, manual.ErrOutOfRange) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		saved++
	}

	writeJSON(w, http.StatusOK, map[string]int{"saved": saved})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.manual.CurrentProfile(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no profile set"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile health.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if profile.Age <= 0 || profile.Age > 130 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "age out of range"})
		return
	}

	if err := s.manual.SaveProfile(r.Context(), profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.cache.Invalidate()
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.RecentImports(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
