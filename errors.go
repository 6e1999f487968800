package resist

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("resist: unauthorized")
	ErrNotFound     = errors.New("resist: not found")
	ErrRateLimited  = errors.New("resist: rate limited")

	ErrClosed           = errors.New("resist: client closed")
	ErrNotConnected     = errors.New("resist: not connected")
	ErrAlreadyConnected = errors.New("resist: already connected")
	ErrNoToken          = errors.New("resist: token not configured")
)

// APIError is a non-2xx REST response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is maps well-known status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// AuthError is returned by Connect when the gateway rejects the token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "resist: authentication failed: " + e.Reason
}

// Is reports AuthError as ErrUnauthorized.
func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }
