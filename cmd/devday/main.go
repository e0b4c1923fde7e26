// DevDay daemon - the background service behind the app
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/devday/devday/internal/api"
	"github.com/devday/devday/internal/auth"
	"github.com/devday/devday/internal/config"
	"github.com/devday/devday/internal/day"
	"github.com/devday/devday/internal/llm"
	"github.com/devday/devday/internal/planner"
	"github.com/devday/devday/internal/storage"
)

var (
	dataDir    string
	configPath string
	port       int
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devday",
		Short: "DevDay Daemon - plan your day, end it with a summary",
		RunE:  runDaemon,
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".devday")

	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Data directory")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Str("service", "devday").
		Timestamp().
		Logger()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	// Open database
	dbPath := filepath.Join(cfg.DataDir, "devday.db")
	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	users := storage.NewUserStore(db)
	sessions := storage.NewSessionStore(db)
	days := storage.NewDayStore(db)
	goals := storage.NewGoalStore(db)
	plans := storage.NewPlanStore(db)
	activities := storage.NewActivityStore(db)
	waitlist := storage.NewWaitlistStore(db)

	authService := auth.New(users, sessions, time.Duration(cfg.Auth.SessionTTL), log)

	// Plan generation is optional; without an API key days simply
	// start without a plan.
	var generator day.PlanGenerator
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	if llmClient.IsConfigured() {
		generator = planner.New(llmClient, log)
		log.Info().Str("model", cfg.OpenAI.Model).Msg("plan generation enabled")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, days will start without AI plans")
	}

	hub := api.NewWebSocketHub(log)

	dayService := day.NewService(day.Config{
		Days:       days,
		Goals:      goals,
		Plans:      plans,
		Activities: activities,
		Generator:  generator,
		Events:     hub,
		Logger:     log,
	})

	server := api.New(api.Config{
		Port:     cfg.Server.Port,
		Auth:     authService,
		Days:     dayService,
		Waitlist: waitlist,
		Hub:      hub,
		Logger:   log,
	})

	// Periodic cleanup of expired sessions
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := sessions.DeleteExpired(); err != nil {
					log.Warn().Err(err).Msg("session cleanup failed")
				} else if n > 0 {
					log.Debug().Int64("deleted", n).Msg("expired sessions cleaned up")
				}
			}
		}
	}()

	// Handle shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		server.Stop(shutdownCtx)
		cancel()
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("open http://localhost in your browser")
	return server.Start()
}
