package service

import (
	"errors"

	"hospital-workflow-backend/internal/repository"
)

var (
	// ErrValidation marks a missing or malformed input, raised before anything is written
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a request that contradicts current state
	ErrConflict = errors.New("conflict")
	// ErrNotConfigured marks a missing required association such as no doctors, nurses or rooms
	ErrNotConfigured = errors.New("not configured")
	// ErrNotFound marks an unknown record on a write path
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidTransition marks an appointment status change outside the allowed set
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnauthorized marks bad credentials or tokens
	ErrUnauthorized = errors.New("unauthorized")
)
