package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devday/devday/internal/auth"
	"github.com/devday/devday/internal/core"
)

type waitlistRequest struct {
	Email string `json:"email"`
}

// Waitlist responses use a message field rather than the error field
// the rest of the API uses; the landing page renders them verbatim.
func (s *Server) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email address."})
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if !auth.ValidEmail(email) {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email address."})
		return
	}

	_, err := s.waitlist.Add(email)
	switch {
	case errors.Is(err, core.ErrDuplicateEmail):
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Email already registered."})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("waitlist insert failed")
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong. Please try again."})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Successfully joined waitlist!"})
}

func (s *Server) handleWaitlistCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.waitlist.Count()
	if err != nil {
		s.log.Error().Err(err).Msg("waitlist count failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
