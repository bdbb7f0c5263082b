package domain

import "errors"

// Engine error kinds. Every operation returns one of these (possibly wrapped
// with fmt.Errorf and %w) so the transport layer can map them to stable codes.
var (
	// ErrValidation covers malformed input the caller can correct and retry.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicate pending reviews, duplicate role names and
	// attempts to delete the rank-0 role.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when an authorization check fails.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState is returned when a transition is attempted from a state
	// that does not allow it (e.g. approving a resolved review).
	ErrInvalidState = errors.New("invalid state")
	// ErrForbiddenTransition is returned on direct attempts to set a
	// cascade-only status such as project "approved".
	ErrForbiddenTransition = errors.New("transition not externally reachable")
	// ErrUnavailable is returned when a collaborator (store, lock) fails or
	// times out, including partially applied multi-effect approvals.
	ErrUnavailable = errors.New("collaborator unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrorCode translates an engine error into its stable, enumerable code.
// Unrecognized errors map to "internal".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrForbiddenTransition):
		return "forbidden_transition"
	case errors.Is(err, ErrInvalidState):
		return "state_error"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "internal"
	}
}

// PartialApprovalError reports an approval whose effects could not all be
// applied. It wraps ErrUnavailable and records which sub-effects landed so the
// caller can reconcile or retry idempotently.
type PartialApprovalError struct {
	ReviewID       string
	ReviewUpdated  bool
	ProjectUpdated bool
	LedgerAppended bool
	Cause          error
}

func (e *PartialApprovalError) Error() string {
	return "approval partially applied for review " + e.ReviewID + ": " + e.Cause.Error()
}

func (e *PartialApprovalError) Unwrap() error { return ErrUnavailable }
