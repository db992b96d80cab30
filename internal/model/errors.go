package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session related errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrMalformedSession = errors.New("malformed session id")

	// Token related errors
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")

	// Permission/Access related errors
	ErrForbidden = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
