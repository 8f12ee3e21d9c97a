package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task matches the given id for the
	// requesting user. A missing task and a task owned by someone else are
	// indistinguishable to the caller.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyDone is returned by Complete when the task was already
	// completed. The task is returned unchanged alongside it so the caller
	// can still render its terminal state.
	ErrTaskAlreadyDone = errors.New("task already completed")
)
