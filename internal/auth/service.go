// Package auth provides account and session management for DevDay.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/storage"
)

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Service manages accounts and login sessions. Tokens handed to
// clients are opaque random strings; only their SHA-256 is stored.
type Service struct {
	users      *storage.UserStore
	sessions   *storage.SessionStore
	sessionTTL time.Duration
	log        zerolog.Logger
}

// New creates an auth service
func New(users *storage.UserStore, sessions *storage.SessionStore, sessionTTL time.Duration, log zerolog.Logger) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// SignUp creates a new account and logs it in, returning the user and
// a session token.
func (s *Service) SignUp(email, password, displayName string) (*core.User, string, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return nil, "", fmt.Errorf("%w: email", core.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", core.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &core.User{
		ID:          core.UserID(uuid.NewString()),
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.users.Create(user, string(hash)); err != nil {
		return nil, "", err
	}

	token, err := s.createSession(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", string(user.ID)).Msg("account created")
	return user, token, nil
}

// LogIn authenticates an email/password pair and returns the user and
// a fresh session token.
func (s *Service) LogIn(email, password string) (*core.User, string, error) {
	email = NormalizeEmail(email)

	user, hash, err := s.users.GetByEmail(email)
	if err != nil {
		// Same error for unknown email and bad password
		return nil, "", core.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, "", core.ErrInvalidCredentials
	}

	token, err := s.createSession(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LogOut removes the session behind a token. Unknown tokens are a
// no-op.
func (s *Service) LogOut(token string) error {
	session, err := s.sessions.GetByTokenHash(hashToken(token))
	if err != nil {
		return nil
	}
	return s.sessions.Delete(session.ID)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(token string) (*core.User, error) {
	if token == "" {
		return nil, core.ErrSessionNotFound
	}

	session, err := s.sessions.GetByTokenHash(hashToken(token))
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		// Expired sessions are deleted lazily on first use
		if err := s.sessions.Delete(session.ID); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, core.ErrSessionExpired
	}

	return s.users.GetByID(session.UserID)
}

func (s *Service) createSession(userID core.UserID) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	session := &core.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(session); err != nil {
		return "", err
	}

	return token, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail does a minimal shape check: something@something.something.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot < 1 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}
