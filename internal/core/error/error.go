package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// FetchErrorMessage describes a failed upstream menu fetch.
	FetchErrorMessage = "menu fetch failed"
)

var (
	// ErrNotInitialized is returned by cache reads before the first refresh.
	ErrNotInitialized = errors.New("menu cache not initialized")
	// ErrCacheStale marks a cache whose stamp is not today.
	ErrCacheStale = errors.New("menu cache is stale")
	// ErrUnknownHall is returned for hall ids outside the configured set.
	ErrUnknownHall = errors.New("unknown dining hall")
	// ErrInvalidToken is returned when a choice token cannot be decoded.
	ErrInvalidToken = errors.New("invalid choice token")
	// ErrTokenExpired is returned when a stored choice token is gone.
	ErrTokenExpired = errors.New("choice token expired")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapFetch wraps a vendor fetch failure for the given hall.
func WrapFetch(hall string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: fmt.Sprintf("%s for %s", FetchErrorMessage, hall),
	}
}

// StatusOf returns the HTTP status carried by err. Invalid choice tokens are
// the caller's fault; anything without an AppError is a 500.
func StatusOf(err error) int {
	if errors.Is(err, ErrInvalidToken) {
		return http.StatusBadRequest
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
