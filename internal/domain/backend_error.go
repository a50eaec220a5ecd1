package domain

import (
	"errors"
	"fmt"
)

// Backend error kinds. A BackendError matches exactly one of them with errors.Is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRateLimited       = errors.New("rate limited")
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPI               = errors.New("api error")
)

type BackendError struct {
	Kind error
	Op   string
	Code string
	Err  error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BackendError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Short renders the error without the operation or wrapped transport detail.
func (e *BackendError) Short() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Kind.Error()
}

// BlocksRegistration reports whether a token validation failure means the token
// itself is unusable, as opposed to a transient condition worth retrying.
func BlocksRegistration(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrMalformedResponse)
}
