package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrRateLimited   = errors.New("rate limited")
	ErrNoCredentials = errors.New("no API credentials configured")
	ErrRunStopped    = errors.New("radar run stopped")
)
