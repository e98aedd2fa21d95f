package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReleaseStaleAssignmentsCommandIsNotConstructed = errors.New(
	"ReleaseStaleAssignmentsCommand must be created via NewReleaseStaleAssignmentsCommand constructor",
)

// ReleaseStaleAssignmentsCommand represents a sweep for assignments that
// were dispatched but never accepted within the allowed window.
type ReleaseStaleAssignmentsCommand struct { //nolint:recvcheck //using for validation
	maxAge time.Duration

	guard guard.ConstructorGuard
}

// NewReleaseStaleAssignmentsCommand creates a sweep command. Assignments
// still unaccepted after maxAge are cancelled and their couriers released.
func NewReleaseStaleAssignmentsCommand(maxAge time.Duration) (ReleaseStaleAssignmentsCommand, error) {
	if maxAge <= 0 {
		return ReleaseStaleAssignmentsCommand{}, errs.NewValueIsInvalidError("maxAge")
	}

	return ReleaseStaleAssignmentsCommand{
		maxAge: maxAge,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReleaseStaleAssignmentsCommandIsNotConstructed if validation fails.
func (c ReleaseStaleAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStaleAssignmentsCommandIsNotConstructed)
}

// MaxAge returns how long an assignment may wait for acceptance.
func (c ReleaseStaleAssignmentsCommand) MaxAge() time.Duration {
	return c.maxAge
}
