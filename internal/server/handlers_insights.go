package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recommend"
	"github.com/meltforce/fittrack/internal/tracker"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	rng := tracker.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = tracker.RangeWeek
	}
	now := time.Now()
	if at := r.URL.Query().Get("at"); at != "" {
		t, err := time.Parse("2006-01-02", at)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid at date: "+err.Error())
			return
		}
		now = t
	}
	rep, err := s.svc.Progress(r.Context(), rng, now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	t := models.RecommendationType(r.URL.Query().Get("type"))
	recs, err := s.svc.Recommendations(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req recommend.GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
	out, err := s.svc.GenerateWorkout(r.Context(), req, save)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if out.Workout != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
