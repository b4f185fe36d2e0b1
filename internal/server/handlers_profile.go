package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/tracker"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetUserProfile(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.UserProfile
	if !decode(w, r, &in) {
		return
	}
	p, err := s.svc.UpdateUserProfile(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var in tracker.GoalInput
	if !decode(w, r, &in) {
		return
	}
	g, err := s.svc.AddGoal(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type goalProgressRequest struct {
	CurrentValue float64 `json:"current_value"`
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var in goalProgressRequest
	if !decode(w, r, &in) {
		return
	}
	g, err := s.svc.UpdateGoalProgress(r.Context(), chi.URLParam(r, "id"), in.CurrentValue)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
