// Package core defines the fundamental types and errors for DevDay.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Day lifecycle errors
	ErrDayNotFound       = errors.New("day not found")
	ErrDayAlreadyStarted = errors.New("day already started")

	// Record errors
	ErrGoalNotFound     = errors.New("goal not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrDuplicateRecord  = errors.New("duplicate record")

	// Waitlist errors
	ErrDuplicateEmail = errors.New("email already on waitlist")

	// Plan generation errors
	ErrMalformedPlan  = errors.New("malformed plan output")
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
