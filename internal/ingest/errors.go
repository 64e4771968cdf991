package ingest

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies source failures.
type Kind string

const (
	KindTransport Kind = "transport"
	KindAuth      Kind = "auth"
	KindMalformed Kind = "malformed"
)

var (
	ErrTransport = errors.New("source transport error")
	ErrAuth      = errors.New("source rejected credentials")
	ErrMalformed = errors.New("source returned malformed data")
)

// Error is a failure talking to a marketplace feed.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// Retryable reports whether another attempt at the same page may succeed.
func (e *Error) Retryable() bool {
	if e.Kind != KindTransport {
		return false
	}
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func Transport(err error) error {
	return &Error{Kind: KindTransport, Err: err}
}

func Malformed(err error) error {
	return &Error{Kind: KindMalformed, Err: err}
}

// FromStatus maps a non-success HTTP status to an auth or transport error.
func FromStatus(status int, body string) error {
	kind := KindTransport
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindAuth
	}
	if len(body) > 256 {
		body = body[:256]
	}
	return &Error{Kind: kind, Status: status, Err: fmt.Errorf("unexpected response: %s", body)}
}

// KindOf returns the kind of a source error, transport for anything unrecognized.
func KindOf(err error) Kind {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Kind
	}
	return KindTransport
}

func retryable(err error) bool {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Retryable()
	}
	return false
}
