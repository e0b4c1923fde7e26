package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devday/devday/internal/auth"
	"github.com/devday/devday/internal/core"
)

type startDayRequest struct {
	Goals []string `json:"goals"`
}

type endDayRequest struct {
	DayID          string `json:"dayId"`
	CompletedGoals int    `json:"completedGoals"`
	TotalGoals     int    `json:"totalGoals"`
}

type updateGoalRequest struct {
	GoalID string `json:"goalId"`
	Status string `json:"status"`
}

type addActivityRequest struct {
	DayID       string `json:"dayId"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (s *Server) handleDayStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	started, dayID, err := s.days.Status(r.Context(), user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("day status check failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := map[string]interface{}{"isStarted": started, "dayId": nil}
	if started {
		resp["dayId"] = dayID
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartDay(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req startDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.days.StartDay(r.Context(), user.ID, req.Goals)
	switch {
	case errors.Is(err, core.ErrMissingRequired):
		s.respondError(w, http.StatusBadRequest, "Goals are required")
		return
	case errors.Is(err, core.ErrDayAlreadyStarted):
		s.respondError(w, http.StatusBadRequest, "Day already started")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("start day failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"day":     result.Day,
		"goals":   result.Goals,
	})
}

func (s *Server) handleEndDay(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req endDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DayID == "" {
		s.respondError(w, http.StatusBadRequest, "Day entry ID is required")
		return
	}

	ended, err := s.days.EndDay(r.Context(), user.ID, core.DayID(req.DayID), req.CompletedGoals, req.TotalGoals)
	switch {
	case errors.Is(err, core.ErrDayNotFound):
		s.respondError(w, http.StatusForbidden, "Day entry not found or access denied")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("end day failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "day": ended})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	dayID := chi.URLParam(r, "dayID")

	detail, err := s.days.Detail(r.Context(), user.ID, core.DayID(dayID))
	switch {
	case errors.Is(err, core.ErrDayNotFound):
		s.respondError(w, http.StatusNotFound, "Day not found")
		return
	case err != nil:
		s.log.Error().Err(err).Str("day_id", dayID).Msg("day detail failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := map[string]interface{}{
		"success":    true,
		"day":        detail.Day,
		"goals":      detail.Goals,
		"activities": detail.Activities,
	}
	if detail.Plan != nil {
		resp["aiPlan"] = detail.Plan
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentDays(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	days, err := s.days.RecentDays(r.Context(), user.ID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("recent days failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"days": days})
}

func (s *Server) handleUpdateGoalStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GoalID == "" {
		s.respondError(w, http.StatusBadRequest, "Goal ID is required")
		return
	}

	goal, err := s.days.UpdateGoalStatus(r.Context(), user.ID, core.GoalID(req.GoalID), core.GoalStatus(req.Status))
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, core.ErrGoalNotFound):
		s.respondError(w, http.StatusNotFound, "Goal not found")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("goal update failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"goal": goal})
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req addActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DayID == "" {
		s.respondError(w, http.StatusBadRequest, "Day ID is required")
		return
	}
	if req.Type == "" {
		s.respondError(w, http.StatusBadRequest, "Activity type is required")
		return
	}
	if req.Description == "" {
		s.respondError(w, http.StatusBadRequest, "Activity description is required")
		return
	}

	activity, err := s.days.AddActivity(r.Context(), user.ID, core.DayID(req.DayID), core.ActivityType(req.Type), req.Description)
	switch {
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrMissingRequired):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, core.ErrDayNotFound):
		s.respondError(w, http.StatusForbidden, "Day not found or access denied")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("add activity failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "activity": activity})
}
