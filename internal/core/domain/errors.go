package domain

import "errors"

var (
	// ErrNotFound covers missing artifacts and users. Ownership violations
	// are reported as ErrNotFound externally so existence never leaks.
	ErrNotFound        = errors.New("artifact not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrValidation      = errors.New("invalid input")
	ErrStorage         = errors.New("storage unavailable")
	ErrEngine          = errors.New("engine call failed")
	ErrConfirmRequired = errors.New("confirmation required: set confirm=true to proceed")
	ErrSweepInProgress = errors.New("a sweep is already running for this scope")
	ErrInvalidOwnerID  = errors.New("owner id is required")
	ErrInvalidKind     = errors.New("unknown artifact kind")
	ErrEmptyContent    = errors.New("artifact content is empty")
	ErrBrokenReference = errors.New("referenced artifact does not exist")
)
