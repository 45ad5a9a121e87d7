package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Messaging errors
	ErrMessageNotFound   = errors.New("message not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
