package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrNoSession = errors.New("no persisted session")
var ErrAnonymous = errors.New("no member signed in")
var ErrForbidden = errors.New("access forbidden")

// RemoteError carries the human-readable message a remote service attached
// to a failed call, so it can be surfaced through the notification channel.
// It wraps the matching sentinel so callers can branch with errors.Is.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	switch e.StatusCode {
	case 400, 401:
		return ErrInvalidCredentials
	case 409:
		return ErrUserExists
	case 403:
		return ErrForbidden
	default:
		return nil
	}
}

// RemoteMessage extracts the server-provided message from err, falling back
// to the given default when the error carries none.
func RemoteMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
