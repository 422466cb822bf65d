package sync

import "errors"

var (
	// ErrRemote marks a failed call to the issue tracker. It is transient:
	// nothing was committed locally.
	ErrRemote = errors.New("remote request failed")

	// ErrTaskNotFound is returned when an edit names an unknown task
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidEdit is returned for an edit with missing or bad values
	ErrInvalidEdit = errors.New("invalid edit")
)
