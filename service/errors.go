package service

import "errors"

// Kind classifies a domain failure. The api package maps kinds onto HTTP
// statuses: permission 403, unauthorized 401, conflict 409, not-found and
// invalid 404.
type Kind int

const (
	KindUnknown Kind = iota
	KindPermission
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInvalid
)

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// PermissionDenied fails an operation before it touches the store.
func PermissionDenied(message string) error {
	return &Error{Kind: KindPermission, Message: message}
}

// Unauthorized reports a failed credential check.
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound reports a missing entity.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a state clash (duplicate name, roster violation).
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Invalid reports a bad argument (negative amount, unknown period).
func Invalid(message string) error {
	return &Error{Kind: KindInvalid, Message: message}
}

// KindOf extracts the kind of a domain error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
