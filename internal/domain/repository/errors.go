package repository

import "errors"

// Sentinel errors shared by every repository implementation. Services and
// handlers match them with errors.Is.
var (
	// ErrNotFound covers both "does not exist" and "not owned by the
	// caller"; the two cases are deliberately indistinguishable so that
	// existence of other users' entities never leaks.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a missing or malformed input field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidReference is returned by the seeded memory creation path
	// when one or more referenced moments do not exist or belong to a
	// different owner. No partial state is written.
	ErrInvalidReference = errors.New("some moments not found or not owned by caller")

	// ErrTxAborted is returned when the seeded creation transaction could
	// not be committed.
	ErrTxAborted = errors.New("transaction aborted")

	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already in use")
)
