package model

import "errors"

// Common errors used across the application
var (
	// Authorization errors
	ErrAuthorizationNotFound  = errors.New("authorization record not found")
	ErrAuthorizationNotLoaded = errors.New("authorization record not loaded")
	ErrInvalidPlayerID        = errors.New("invalid player id")

	// Chat command errors
	ErrCommandRegistered = errors.New("command name already registered")

	// Status errors
	ErrStatusNotFound = errors.New("status snapshot not found")

	// Session errors
	ErrNoSaveAvailable = errors.New("no loadable save available")
	ErrNoActiveSession = errors.New("no active session")
)
