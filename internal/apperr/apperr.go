// Package apperr defines the failure taxonomy shared by the service layer.
// Every failure an operation can surface to a caller wraps one of these
// sentinels; handlers map them to HTTP status codes at the boundary.
package apperr

import "errors"

var (
	// ErrNotFound means an entity reference did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is authenticated but not authorized.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState means the action is not valid for the entity's
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict means a uniqueness constraint was violated, such as a
	// duplicate invite-code join or a taken username.
	ErrConflict = errors.New("conflict")
	// ErrNoGroup means the action requires group context the caller lacks.
	ErrNoGroup = errors.New("no group")
	// ErrNotMember means the caller is not a member of the group.
	ErrNotMember = errors.New("not a member")
	// ErrValidation means the input was malformed.
	ErrValidation = errors.New("validation failed")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotMember) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }
