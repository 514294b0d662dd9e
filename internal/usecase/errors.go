package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRole is wrapped by every ValidationError raised for role input.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidTeam indicates malformed team or membership input.
	ErrInvalidTeam = errors.New("invalid team")
	// ErrImmutableRole is returned when a default role would be changed, deleted or assigned as Owner.
	ErrImmutableRole = errors.New("default roles are immutable")
	// ErrNotAMember indicates the user has no active membership in the team.
	ErrNotAMember = errors.New("user is not a member of the team")
	// ErrPermissionDenied indicates the actor lacks required permissions.
	ErrPermissionDenied = errors.New("insufficient permissions")
	// ErrRoleNotFound is returned when a role id does not resolve to an active role of the team.
	ErrRoleNotFound = errors.New("role not found")
	// ErrTeamNotFound is returned when the team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrAlreadyMember is returned when inviting a user that already holds a membership.
	ErrAlreadyMember = errors.New("user is already a member of the team")
	// ErrOwnerRemoval is returned when the owner's membership would be removed or reassigned.
	ErrOwnerRemoval = errors.New("team owner membership cannot be changed")
)

// ValidationError describes a user-correctable input problem.
type ValidationError struct {
	Field  string
	Reason string
	err    error
}

func newRoleValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, err: ErrInvalidRole}
}

func newTeamValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, err: ErrInvalidTeam}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap exposes the sentinel category (ErrInvalidRole or ErrInvalidTeam).
func (e *ValidationError) Unwrap() error {
	if e.err == nil {
		return ErrInvalidRole
	}
	return e.err
}
