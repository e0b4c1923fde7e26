package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devday/devday/internal/auth"
	"github.com/devday/devday/internal/core"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *core.User `json:"user"`
	Token string     `json:"token"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.auth.SignUp(req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, core.ErrEmailTaken):
		s.respondError(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("signup failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := s.auth.LogIn(req.Email, req.Password)
	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("login failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if c, err := r.Cookie(auth.SessionCookie); err == nil {
		token = c.Value
	}

	if err := s.auth.LogOut(token); err != nil {
		s.log.Error().Err(err).Msg("logout failed")
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.clearSessionCookie(w)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.DefaultSessionTTL.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
