package domain

import "errors"

var (
	ErrNoActiveSession      = errors.New("no active session")
	ErrNoSessionAvailable   = errors.New("no session available")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSelectionCancelled   = errors.New("session selection cancelled")
	ErrUnknownDialect       = errors.New("unknown dialect")
	ErrFeatureNotConfigured = errors.New("feature not configured")
	ErrResponseTimeout      = errors.New("response timeout")
	ErrSessionClosed        = errors.New("session closed")
	ErrMalformedResponse    = errors.New("malformed response")
)
