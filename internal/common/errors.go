// Package common defines shared constants and sentinel errors used across
// the campusevents server layers. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Entity-specific not-found errors. All of them match ErrorNotFound.
	ErrUserNotFound         = fmt.Errorf("user %w", ErrorNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrorNotFound)
	ErrRegistrationNotFound = fmt.Errorf("registration %w", ErrorNotFound)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Access guard errors. An empty bearer token is a malformed header.
	ErrMissingAuthHeader     = errors.New("authorization header missing")
	ErrMalformedAuthHeader   = errors.New("invalid authorization format")
	ErrEmptyToken            = fmt.Errorf("%w: token missing", ErrMalformedAuthHeader)
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidToken          = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
