package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies authentication failures. The kinds stay distinguishable
// internally even where the API returns a generic message, so the front-end
// and operators can tell "no such user" from "wrong password".
type Kind int

const (
	// KindValidation: the request itself is malformed (missing username or
	// password).
	KindValidation Kind = iota + 1
	// KindNotFound: no credential record exists for the username.
	KindNotFound
	// KindUnauthorized: the password does not match the stored hash.
	KindUnauthorized
	// KindDependency: the data store was unreachable, timed out, or a
	// secondary lookup failed. Never reported as an authentication failure.
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// HTTPStatus is the fixed status mapping for the kind. One table,
// applied consistently.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified authentication failure. The wrapped cause carries
// internal detail (raw store errors) for logs; it is never shown to clients.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is lets errors.Is match on kind sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// E builds a classified error wrapping an optional cause.
func E(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, err: cause}
}

// Sentinels for errors.Is checks in callers and tests.
var (
	ErrValidation   = &Error{Kind: KindValidation, msg: "validation failed"}
	ErrNotFound     = &Error{Kind: KindNotFound, msg: "user not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, msg: "invalid credentials"}
	ErrDependency   = &Error{Kind: KindDependency, msg: "dependency failure"}
)

// KindOf extracts the kind from err, or 0 when err is not a classified
// authentication error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
