package service

import "errors"

var (
	// ErrUnauthenticated means no acting identity was resolved for the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnauthorized means the identity is valid but lacks permission,
	// e.g. editing another author's recipe.
	ErrUnauthorized = errors.New("permission denied")

	// ErrNotFound means the target entity or relation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means a relation creation was attempted for a
	// relation that is already present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidOperation means the requested state transition is not
	// allowed, e.g. following yourself.
	ErrInvalidOperation = errors.New("invalid operation")
)
