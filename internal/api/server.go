// Package api provides the HTTP API server for DevDay.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/devday/devday/internal/auth"
	"github.com/devday/devday/internal/day"
	"github.com/devday/devday/internal/storage"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	auth     *auth.Service
	days     *day.Service
	waitlist *storage.WaitlistStore
	wsHub    *WebSocketHub

	log zerolog.Logger
}

// Config for the server
type Config struct {
	Port     int
	Auth     *auth.Service
	Days     *day.Service
	Waitlist *storage.WaitlistStore
	Hub      *WebSocketHub // optional; created if nil
	Logger   zerolog.Logger
}

// New creates a new API server
func New(cfg Config) *Server {
	hub := cfg.Hub
	if hub == nil {
		hub = NewWebSocketHub(cfg.Logger)
	}

	s := &Server{
		auth:     cfg.Auth,
		days:     cfg.Days,
		waitlist: cfg.Waitlist,
		wsHub:    hub,
		log:      cfg.Logger.With().Str("component", "api").Logger(),
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Hub returns the websocket hub so services can broadcast events.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Handler returns the router, for mounting in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/waitlist", s.handleJoinWaitlist)
		r.Get("/waitlist/count", s.handleWaitlistCount)
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/login", s.handleLogIn)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/auth/logout", s.handleLogOut)
			r.Get("/auth/me", s.handleMe)

			r.Get("/day/status", s.handleDayStatus)
			r.Post("/day/start", s.handleStartDay)
			r.Post("/day/end", s.handleEndDay)
			r.Get("/day/recent", s.handleRecentDays)
			r.Get("/day/{dayID}", s.handleGetDay)

			r.Post("/activity/add", s.handleAddActivity)
			r.Post("/goal/status", s.handleUpdateGoalStatus)
		})
	})

	// WebSocket upgrade; browsers authenticate via the session cookie
	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Get("/ws", s.handleWebSocket)
	})

	s.router = r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.log.Info().Str("addr", s.httpServer.Addr).Msg("API server starting")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
